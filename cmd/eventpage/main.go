package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	"eventpage/internal/config"
	"eventpage/internal/content"
	appLog "eventpage/internal/log"
	"eventpage/internal/metrics"
	"eventpage/internal/refresh"
	"eventpage/internal/tui"
	"eventpage/internal/web"
)

const version = "0.1.0"

type flagConfig struct {
	configPath string
	listen     string
	tui        bool
	once       bool
	debug      bool
}

func main() {
	flags := parseFlags()

	if err := config.LoadDotEnv(".env"); err != nil {
		appLog.Error("failed to read .env", err)
	}

	conf, err := config.Load(flags.configPath)
	if errors.Is(err, config.ErrDefaultNotSaved) {
		appLog.Error("running with default config", err, "config_path", flags.configPath)
		err = nil
	}
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	appLog.Info("eventpage starting", "version", version)
	appLog.Info("effective config",
		"listen", conf.Listen,
		"content", conf.Content,
		"timezone", conf.Timezone,
		"refresh", conf.Refresh,
		"feeds", len(conf.Feeds),
		"capture", conf.Capture.Enabled,
		"tui", flags.tui,
		"once", flags.once,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met := metrics.New()
	store := content.NewStore(&content.Catalog{})
	r, err := refresh.New(conf, store, met)
	if err != nil {
		appLog.Error("invalid refresh settings", err)
		os.Exit(1)
	}

	switch {
	case flags.once:
		err = runOnce(ctx, conf, store, met, r)
	case flags.tui:
		err = runTUI(ctx, conf, store, met, r)
	default:
		err = runServer(ctx, conf, store, met, r)
	}
	if err != nil {
		appLog.Error("eventpage failed", err)
		os.Exit(1)
	}
	appLog.Info("eventpage exiting")
}

// runServer serves the web front-end and reloads on schedule.
func runServer(ctx context.Context, conf *config.Config, store *content.Store, met *metrics.Metrics, r *refresh.Refresher) error {
	if err := r.Reload(ctx); err != nil {
		return err
	}
	if conf.Capture.Enabled {
		r.Capture = refresh.PreviewCapture(conf)
	}
	if err := r.Start(ctx); err != nil {
		return err
	}
	return web.StartServer(ctx, conf, store, met)
}

// runTUI drives the terminal front-end. Logs go to a file in the data
// directory since the UI owns the screen.
func runTUI(ctx context.Context, conf *config.Config, store *content.Store, met *metrics.Metrics, r *refresh.Refresher) error {
	var out io.Writer = io.Discard
	if err := os.MkdirAll(conf.DataDir, 0o755); err == nil {
		if f, err := os.OpenFile(filepath.Join(conf.DataDir, "eventpage.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			defer f.Close()
			out = f
		}
	}
	appLog.SetOutput(out)

	if err := r.Reload(ctx); err != nil {
		return err
	}
	return tui.Run(ctx, store.Catalog(), met)
}

// runOnce reloads the catalog, captures a preview if enabled and exits.
// The web server runs only long enough to be captured, and a failed
// capture fails the run.
func runOnce(ctx context.Context, conf *config.Config, store *content.Store, met *metrics.Metrics, r *refresh.Refresher) error {
	if !conf.Capture.Enabled {
		return r.Reload(ctx)
	}

	srvCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- web.StartServer(srvCtx, conf, store, met) }()

	err := waitHealthy(ctx, conf.Listen, 10*time.Second)
	if err == nil {
		err = r.Reload(ctx)
	}
	if err == nil {
		err = refresh.PreviewCapture(conf)(ctx, store.Catalog())
	}
	cancel()
	if srvErr := <-errCh; err == nil {
		err = srvErr
	}
	return err
}

func waitHealthy(ctx context.Context, listen string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := refresh.BaseURL(listen) + "/health"
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.New("web server did not become healthy")
		case <-tick.C:
		}
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/eventpage/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.tui, "tui", false, "Run the terminal front-end instead of the web server")
	flag.BoolVar(&cfg.once, "once", false, "Reload once (and capture a preview if enabled), then exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
