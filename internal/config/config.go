package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (UIRE_*). Nested keys use underscores
// doubled in the env name: UIRE_RATE__CAPACITY -> rate.capacity.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: UIRE_SALT -> salt, etc.
	if err := k.Load(env.Provider("UIRE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "UIRE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Salt == "" {
		return fmt.Errorf("salt is required (set it in the config file or UIRE_SALT)")
	}

	if c.Rate.Capacity <= 0 {
		return fmt.Errorf("rate.capacity must be positive, got %d", c.Rate.Capacity)
	}
	if c.Rate.RefillPerSec <= 0 {
		return fmt.Errorf("rate.refill_per_sec must be positive, got %g", c.Rate.RefillPerSec)
	}

	if c.Detection.ConfidenceThreshold < 0 || c.Detection.ConfidenceThreshold > 1 {
		return fmt.Errorf("detection.confidence_threshold must be in [0,1], got %g", c.Detection.ConfidenceThreshold)
	}

	ttl, err := time.ParseDuration(c.Memory.PreferenceTTL)
	if err != nil {
		return fmt.Errorf("invalid memory.preference_ttl %q: %w", c.Memory.PreferenceTTL, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("memory.preference_ttl must be positive, got %s", c.Memory.PreferenceTTL)
	}

	sweep, err := time.ParseDuration(c.Memory.SweepInterval)
	if err != nil {
		return fmt.Errorf("invalid memory.sweep_interval %q: %w", c.Memory.SweepInterval, err)
	}
	if sweep <= 0 {
		return fmt.Errorf("memory.sweep_interval must be positive, got %s", c.Memory.SweepInterval)
	}

	return nil
}
