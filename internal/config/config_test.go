package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Salt = "test-salt"
	return cfg
}

func TestDefaultsValidateWithSalt(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.PreferenceTTL(); got != 720*time.Hour {
		t.Errorf("PreferenceTTL = %s, want 720h", got)
	}
	if got := cfg.SweepInterval(); got != 5*time.Minute {
		t.Errorf("SweepInterval = %s, want 5m", got)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing salt", func(c *Config) { c.Salt = "" }},
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"zero capacity", func(c *Config) { c.Rate.Capacity = 0 }},
		{"negative refill", func(c *Config) { c.Rate.RefillPerSec = -1 }},
		{"threshold above one", func(c *Config) { c.Detection.ConfidenceThreshold = 1.5 }},
		{"zero ttl", func(c *Config) { c.Memory.PreferenceTTL = "0s" }},
		{"garbage ttl", func(c *Config) { c.Memory.PreferenceTTL = "soon" }},
		{"zero sweep", func(c *Config) { c.Memory.SweepInterval = "0s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate accepted invalid config")
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Rate.Capacity != 10 {
		t.Errorf("Rate.Capacity = %d, want 10", cfg.Rate.Capacity)
	}
}

func TestLoadFileAndEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".uire.yml")
	body := "port: 9090\nsalt: file-salt\nrate:\n  capacity: 3\n  refill_per_sec: 1.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("UIRE_SALT", "env-salt")
	t.Setenv("UIRE_RATE__CAPACITY", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Salt != "env-salt" {
		t.Errorf("Salt = %q, want env override", cfg.Salt)
	}
	if cfg.Rate.Capacity != 7 {
		t.Errorf("Rate.Capacity = %d, want env override 7", cfg.Rate.Capacity)
	}
	if cfg.Rate.RefillPerSec != 1.5 {
		t.Errorf("Rate.RefillPerSec = %g, want 1.5", cfg.Rate.RefillPerSec)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".uire.yml")
	cfg := validConfig()
	cfg.Port = 1234
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 1234 {
		t.Errorf("Port = %d, want 1234", loaded.Port)
	}
	if loaded.Salt != "test-salt" {
		t.Errorf("Salt = %q, want test-salt", loaded.Salt)
	}
}
