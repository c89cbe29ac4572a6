package config

import "time"

// Config is the top-level uire configuration, corresponding to .uire.yml.
type Config struct {
	Port      int    `yaml:"port" koanf:"port"`
	DataDir   string `yaml:"data_dir" koanf:"data_dir"`
	EventsLog string `yaml:"events_log" koanf:"events_log"`
	APIKey    string `yaml:"api_key" koanf:"api_key"`
	Salt      string `yaml:"salt" koanf:"salt"`
	AllowAll  bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`

	Rate       RateConfig       `yaml:"rate" koanf:"rate"`
	Detection  DetectionConfig  `yaml:"detection" koanf:"detection"`
	Memory     MemoryConfig     `yaml:"memory" koanf:"memory"`
	Downstream DownstreamConfig `yaml:"downstream" koanf:"downstream"`
}

// RateConfig controls the per-identity admission token bucket.
type RateConfig struct {
	Capacity     int     `yaml:"capacity" koanf:"capacity"`
	RefillPerSec float64 `yaml:"refill_per_sec" koanf:"refill_per_sec"`
}

// DetectionConfig tunes the ambiguity detector.
type DetectionConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold" koanf:"confidence_threshold"`
}

// MemoryConfig controls the preference store lifecycle. Durations are
// Go duration strings ("1h", "30m").
type MemoryConfig struct {
	PreferenceTTL string `yaml:"preference_ttl" koanf:"preference_ttl"`
	SweepInterval string `yaml:"sweep_interval" koanf:"sweep_interval"`
}

// DownstreamConfig points at an OpenAI-compatible completion endpoint
// used only by the CLI --send path. Empty base URL disables forwarding.
type DownstreamConfig struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	APIKey  string `yaml:"api_key" koanf:"api_key"`
	Model   string `yaml:"model" koanf:"model"`
}

// PreferenceTTL returns the parsed preference TTL. Call Validate first.
func (c *Config) PreferenceTTL() time.Duration {
	d, _ := time.ParseDuration(c.Memory.PreferenceTTL)
	return d
}

// SweepInterval returns the parsed sweep interval. Call Validate first.
func (c *Config) SweepInterval() time.Duration {
	d, _ := time.ParseDuration(c.Memory.SweepInterval)
	return d
}
