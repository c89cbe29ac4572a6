package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mohdibrahimai/uire/internal/config"
	"github.com/mohdibrahimai/uire/internal/db"
	"github.com/mohdibrahimai/uire/internal/engine"
	"github.com/mohdibrahimai/uire/internal/identity"
	"github.com/mohdibrahimai/uire/internal/prefs"
	"github.com/mohdibrahimai/uire/internal/telemetry"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `uire init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\nRun `uire init` to create a config file", err)
	}
	return cfg, nil
}

// stack is the wired pipeline shared by the serve, mcp, and resolve
// commands. Close releases the database.
type stack struct {
	cfg      *config.Config
	database *db.DB
	store    *prefs.Store
	counters *telemetry.Counters
	sink     *telemetry.FileSink
	engine   *engine.Engine
	hasher   *identity.Hasher
}

func (s *stack) Close() error {
	return s.database.Close()
}

// buildStack opens the database and wires the engine from config.
func buildStack(cfg *config.Config) (*stack, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "uire.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := prefs.NewStore(database)
	counters := telemetry.NewCounters()

	var sink *telemetry.FileSink
	rec := telemetry.Recorder(counters)
	if cfg.EventsLog != "" {
		sink, err = telemetry.NewFileSink(cfg.EventsLog)
		if err != nil {
			database.Close()
			return nil, err
		}
		rec = telemetry.Multi{counters, sink}
	}

	eng := engine.New(engine.Config{
		RateCapacity:        cfg.Rate.Capacity,
		RateRefillPerSec:    cfg.Rate.RefillPerSec,
		ConfidenceThreshold: cfg.Detection.ConfidenceThreshold,
		PreferenceTTL:       cfg.PreferenceTTL(),
		SessionIdleTTL:      30 * time.Minute,
	}, store, rec)

	return &stack{
		cfg:      cfg,
		database: database,
		store:    store,
		counters: counters,
		sink:     sink,
		engine:   eng,
		hasher:   identity.NewHasher(cfg.Salt),
	}, nil
}
