// Package config parses and validates the funherit.yaml build manifest.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level funherit.yaml configuration.
type Config struct {
	// Store is the registry database path, or ":memory:" for a build that
	// keeps registries in-process only.
	Store string `yaml:"store,omitempty"`

	// StrictOverrides escalates the inert-override warning (a declaration
	// at a key inherited without override permission) to a fatal error.
	// Off by default: locked ancestor behavior is a capability, not a bug.
	StrictOverrides bool `yaml:"strict_overrides,omitempty"`

	// Session names the build session in logs. Defaults to a generated id.
	Session string `yaml:"session,omitempty"`

	// LogLevel is "debug", "info", "warn" or "error". Defaults to "warn".
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no manifest exists.
func Default() *Config {
	return &Config{Store: ":memory:", LogLevel: "warn"}
}

// Load reads and validates a funherit.yaml manifest.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the manifest for consistency.
func (c *Config) Validate() error {
	if c.Store == "" {
		return fmt.Errorf("store must not be empty (use \":memory:\" for an in-process build)")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
