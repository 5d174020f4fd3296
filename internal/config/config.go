// Package config holds the runtime configuration of the tms command.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cxd309/gotms/pkg/engine"
)

// Config is read from an optional YAML file; command-line flags override it.
type Config struct {
	LogLevel   string        `yaml:"log_level"`
	EnginePath string        `yaml:"engine_path"` // explicit tms-engine binary; no fallback when set
	BundleDirs []string      `yaml:"bundle_dirs"` // searched before $PATH
	Timeout    time.Duration `yaml:"timeout"`     // zero means no limit
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:   "info",
		BundleDirs: engine.DefaultBundleDirs(),
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that cannot be applied.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", c.Timeout)
	}
	return nil
}

// Resolver returns the engine binary resolver described by the configuration.
func (c Config) Resolver() *engine.Resolver {
	return &engine.Resolver{Path: c.EnginePath, BundleDirs: c.BundleDirs}
}
