package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP resolution server",
	Long:  `Starts the uire HTTP server with the full resolution API: detection, clarification, one-shot resolve, preference memory, and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		st, err := buildStack(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		// Set version from the cmd package variable.
		server.Version = Version

		srv := server.New(server.Config{
			Port:          cfg.Port,
			APIKey:        cfg.APIKey,
			AllowAll:      cfg.AllowAll,
			PreferenceTTL: cfg.PreferenceTTL(),
			BenchDataset:  filepath.Join(cfg.DataDir, "bench.jsonl"),
		}, st.engine, st.store, st.counters, st.sink, detect.New(cfg.Detection.ConfidenceThreshold), st.hasher)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Background reclamation of expired preferences and idle sessions.
		st.store.StartSweeper(ctx, cfg.SweepInterval())
		go func() {
			ticker := time.NewTicker(cfg.SweepInterval())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					st.engine.Sessions().Purge()
				}
			}
		}()
		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "uire server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Data dir: %s\n", cfg.DataDir)
		if cfg.EventsLog != "" {
			fmt.Fprintf(os.Stderr, "  Events log: %s\n", cfg.EventsLog)
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
