package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	appLog "eventpage/internal/log"
)

// defaultCatalog is the built-in catalog used when no content file is
// configured.
//
//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a YAML catalog. Unknown keys are rejected
// so that typos in optional field names do not silently hide a section.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("catalog is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Load reads the catalog at path. An empty path selects the built-in
// catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		appLog.Debug("no content file configured; using built-in catalog")
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	appLog.Info("catalog loaded", "path", path, "events", c.Len(), "gallery", len(c.Gallery))
	return c, nil
}
