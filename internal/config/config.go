package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// NOTE: YAML is the source of truth. Environment variables (optionally
// from a .env file) override a handful of deployment-specific keys.

// FeedConfig describes a single ICS feed imported into the catalog.
type FeedConfig struct {
	// ID is an internal identifier used for logging and record sources.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// CaptureConfig controls headless-browser previews of the detail page.
type CaptureConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	Width      int  `yaml:"width" json:"width"`
	Height     int  `yaml:"height" json:"height"`
	TimeoutSec int  `yaml:"timeout_sec" json:"timeout_sec"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Content is the catalog YAML path. Empty selects the built-in catalog.
	Content string `yaml:"content" json:"content"`

	// GalleryDir is served under /gallery/.
	GalleryDir string `yaml:"gallery_dir" json:"gallery_dir"`

	// DataDir holds the feed cache and the preview image.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Refresh is a cron schedule (e.g. "*/15 * * * *") for reloading the
	// catalog and feeds.
	Refresh string `yaml:"refresh" json:"refresh"`

	// HorizonDays / BackfillDays bound feed imports around now.
	HorizonDays  int `yaml:"horizon_days" json:"horizon_days"`
	BackfillDays int `yaml:"backfill_days" json:"backfill_days"`

	// Timezone is the IANA zone feed events are displayed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	Feeds []FeedConfig `yaml:"feeds" json:"feeds"`

	// CORSOrigins lists origins allowed to call /api/*.
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	// BasicAuth, if set, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	Capture CaptureConfig `yaml:"capture" json:"capture"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills in zero values so that partially-filled configs behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.GalleryDir == "" {
		c.GalleryDir = "./assets/images"
	}
	if c.DataDir == "" {
		c.DataDir = "/var/lib/eventpage"
	}
	if c.Refresh == "" {
		c.Refresh = "*/15 * * * *"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 90
	}
	if c.BackfillDays < 0 {
		c.BackfillDays = 0
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Kolkata"
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	if c.Capture.Width <= 0 {
		c.Capture.Width = 1280
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = 2000
	}
	if c.Capture.TimeoutSec <= 0 {
		c.Capture.TimeoutSec = 30
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = "info"
	}
}

// PreviewPath is where captured previews are written.
func (c *Config) PreviewPath() string {
	return filepath.Join(c.DataDir, "preview.png")
}

// FeedCacheDir is where feed bodies and validators are cached.
func (c *Config) FeedCacheDir() string {
	return filepath.Join(c.DataDir, "ics-cache")
}

// BasicAuthEnabled reports whether both credentials are set.
func (c *Config) BasicAuthEnabled() bool {
	return c.BasicAuth != nil && c.BasicAuth.Username != "" && c.BasicAuth.Password != ""
}

// ErrDefaultNotSaved reports that a first-run default config could not be
// written. Load still returns a usable config alongside it.
var ErrDefaultNotSaved = errors.New("default config not saved")

// saveDefault is swapped in tests.
var saveDefault = Save

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned. If that write fails the defaults are returned
//     together with an error wrapping ErrDefaultNotSaved.
//   - If the file exists, it is decoded and normalized.
//
// In both cases environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	var (
		cfg     *Config
		saveErr error
	)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = DefaultConfig()
		if err := saveDefault(path, cfg); err != nil {
			saveErr = fmt.Errorf("%w: %w", ErrDefaultNotSaved, err)
		}
	case err != nil:
		return nil, err
	default:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()
	cfg.Normalize()
	return cfg, saveErr
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv applies EVENTPAGE_* overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("EVENTPAGE_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("EVENTPAGE_CONTENT"); v != "" {
		c.Content = v
	}
	if v := os.Getenv("EVENTPAGE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("EVENTPAGE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventpage-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
