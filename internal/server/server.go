// Package server is the HTTP shell around the resolution engine. It
// contains no decision logic: handlers decode, delegate, and encode.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/engine"
	"github.com/mohdibrahimai/uire/internal/identity"
	"github.com/mohdibrahimai/uire/internal/prefs"
	"github.com/mohdibrahimai/uire/internal/telemetry"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Config holds server configuration.
type Config struct {
	Port          int
	APIKey        string // optional; empty disables the check
	AllowAll      bool   // allow all CORS origins (dev mode)
	PreferenceTTL time.Duration
	BenchDataset  string // JSONL dataset served by /v1/bench
}

// Server wires the engine and its collaborators to HTTP routes.
type Server struct {
	cfg        Config
	engine     *engine.Engine
	store      *prefs.Store
	counters   *telemetry.Counters
	sink       *telemetry.FileSink
	detector   *detect.Detector
	hasher     *identity.Hasher
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all dependencies.
func New(cfg Config, eng *engine.Engine, store *prefs.Store, counters *telemetry.Counters, sink *telemetry.FileSink, detector *detect.Detector, hasher *identity.Hasher) *Server {
	s := &Server{
		cfg:      cfg,
		engine:   eng,
		store:    store,
		counters: counters,
		sink:     sink,
		detector: detector,
		hasher:   hasher,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.requireAPIKey)

		r.Post("/detect", s.handleDetect)
		r.Post("/clarify", s.handleClarify)
		r.Post("/answer", s.handleAnswer)
		r.Post("/resolve", s.handleResolve)

		r.Get("/memory", s.handleGetMemory)
		r.Post("/memory", s.handleSetMemory)
		r.Delete("/memory", s.handleClearMemory)

		r.Get("/consent", s.handleGetConsent)
		r.Post("/consent", s.handleSetConsent)

		r.Get("/stats", s.handleStats)
		r.Get("/export", s.handleExport)
		r.Get("/bench", s.handleBench)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("uire listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// requireAPIKey rejects v1 requests lacking the configured key.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("X-API-Key") != s.cfg.APIKey {
			writeJSONError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// callerHash derives the salted caller identity from the X-User-ID
// header, falling back to the remote address. Raw identifiers never
// travel past this point.
func (s *Server) callerHash(r *http.Request) string {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		raw = r.RemoteAddr
	}
	return s.hasher.Hash(raw)
}
