//go:build !tinygo

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Load builds a configuration from the defaults, the YAML file at path (if
// path is non-empty) and STEPCTL_* environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Parse decodes YAML over cfg, leaving fields absent from data untouched
func Parse(data []byte, cfg *Config) error {
	return yaml.Unmarshal(data, cfg)
}
