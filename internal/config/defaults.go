package config

// DefaultConfig returns a configuration with sensible defaults for
// local use. The salt has no default: resolving without one would
// silently produce unkeyed identity hashes.
func DefaultConfig() *Config {
	return &Config{
		Port:      8080,
		DataDir:   ".uire",
		EventsLog: ".uire/events.jsonl",
		Rate: RateConfig{
			Capacity:     10,
			RefillPerSec: 10,
		},
		Detection: DetectionConfig{
			ConfidenceThreshold: 0.25,
		},
		Memory: MemoryConfig{
			PreferenceTTL: "720h",
			SweepInterval: "5m",
		},
		Downstream: DownstreamConfig{
			Model: "gpt-4o-mini",
		},
	}
}
