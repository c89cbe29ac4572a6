// Package engine composes the resolution pipeline: admission, ambiguity
// detection, clarification, preference-aware policy merging, and
// telemetry. Each operation is synchronous and never blocks on the
// network; concurrency only meets at the limiter and the stores.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohdibrahimai/uire/internal/clarify"
	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/policy"
	"github.com/mohdibrahimai/uire/internal/prefs"
	"github.com/mohdibrahimai/uire/internal/ratelimit"
	"github.com/mohdibrahimai/uire/internal/session"
	"github.com/mohdibrahimai/uire/internal/telemetry"
)

// Config carries the engine's tunables.
type Config struct {
	RateCapacity        int
	RateRefillPerSec    float64
	ConfidenceThreshold float64
	PreferenceTTL       time.Duration
	SessionIdleTTL      time.Duration
}

// Engine is the intent-resolution pipeline.
type Engine struct {
	limiter  *ratelimit.Limiter
	detector *detect.Detector
	store    *prefs.Store
	sessions *session.Store
	rec      telemetry.Recorder
	prefTTL  time.Duration
}

// New wires the pipeline. The preference store and recorder are
// injected collaborators; pass telemetry.Nop for silent operation.
func New(cfg Config, store *prefs.Store, rec telemetry.Recorder) *Engine {
	if rec == nil {
		rec = telemetry.Nop{}
	}
	return &Engine{
		limiter:  ratelimit.New(cfg.RateCapacity, cfg.RateRefillPerSec),
		detector: detect.New(cfg.ConfidenceThreshold),
		store:    store,
		sessions: session.NewStore(cfg.SessionIdleTTL),
		rec:      rec,
		prefTTL:  cfg.PreferenceTTL,
	}
}

// Resolution is the terminal output of the pipeline for one query.
type Resolution struct {
	Intent policy.Intent `json:"intent"`
	Prompt string        `json:"final_prompt"`
}

// Sessions exposes the session store for idle purging.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

func (e *Engine) admit(identity string) error {
	if !e.limiter.Allow(identity) {
		return ErrRateLimited
	}
	return nil
}

func (e *Engine) emit(kind telemetry.Kind, userHash string, start time.Time) {
	e.rec.Record(telemetry.Event{
		Kind:      kind,
		UserHash:  userHash,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
		TS:        telemetry.Now(),
	})
}

// Detect scores a query for ambiguity.
func (e *Engine) Detect(ctx context.Context, userHash, query string) (detect.Result, error) {
	if err := e.admit(userHash); err != nil {
		return detect.Result{}, err
	}
	start := time.Now()
	e.emit(telemetry.KindRequest, userHash, start)

	res, err := e.detector.Detect(query)
	if err != nil {
		e.emit(telemetry.KindError, userHash, start)
		return detect.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if res.Ambiguous {
		e.emit(telemetry.KindAmbiguous, userHash, start)
	}
	return res, nil
}

// Clarify detects ambiguity and opens a session. Ambiguous queries get
// up to two questions and wait for one batch of answers; clear queries
// are resolved immediately from preferences and defaults.
func (e *Engine) Clarify(ctx context.Context, userHash, query string) (session.Session, error) {
	if err := e.admit(userHash); err != nil {
		return session.Session{}, err
	}
	start := time.Now()
	e.emit(telemetry.KindRequest, userHash, start)

	det, err := e.detector.Detect(query)
	if err != nil {
		e.emit(telemetry.KindError, userHash, start)
		return session.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	questions := clarify.Questions(det.Factors)
	sess := e.sessions.Create(userHash, query, det, questions)

	if len(questions) == 0 {
		// Nothing to ask; resolve with defaults and stored preferences.
		res, rerr := policy.Resolve(query, nil, nil, nil, e.preferences(ctx, userHash))
		if rerr != nil {
			e.emit(telemetry.KindError, userHash, start)
			return session.Session{}, fmt.Errorf("resolving clear query: %w", rerr)
		}
		resolved, rerr := e.sessions.Resolve(sess.ID, res.Intent, res.Prompt)
		if rerr != nil {
			return session.Session{}, rerr
		}
		e.emit(telemetry.KindResolution, userHash, start)
		return resolved, nil
	}

	e.emit(telemetry.KindClarification, userHash, start)
	return *sess, nil
}

// Answer submits the single batch of answers for a session and
// resolves it. Partial answer sets fall back to question defaults;
// answers for unknown questions are rejected.
func (e *Engine) Answer(ctx context.Context, userHash, sessionID string, answers map[string]string) (session.Session, error) {
	if err := e.admit(userHash); err != nil {
		return session.Session{}, err
	}
	start := time.Now()
	e.emit(telemetry.KindRequest, userHash, start)

	sess, err := e.sessions.Get(sessionID)
	if err != nil {
		e.emit(telemetry.KindError, userHash, start)
		return session.Session{}, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if sess.UserHash != userHash {
		e.emit(telemetry.KindError, userHash, start)
		return session.Session{}, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	res, err := policy.Resolve(sess.Query, sess.Questions, answers, nil, e.preferences(ctx, userHash))
	if err != nil {
		e.emit(telemetry.KindError, userHash, start)
		return session.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	resolved, err := e.sessions.Resolve(sessionID, res.Intent, res.Prompt)
	if errors.Is(err, session.ErrResolved) {
		e.emit(telemetry.KindError, userHash, start)
		return session.Session{}, fmt.Errorf("%w: session %s already resolved", ErrInvalidInput, sessionID)
	}
	if err != nil {
		return session.Session{}, err
	}

	e.remember(ctx, userHash, res.Remembered)
	e.emit(telemetry.KindAnswer, userHash, start)
	return resolved, nil
}

// Resolve is the one-shot path: detect, derive questions, and resolve
// in a single call with field-keyed answers. Zero answers always
// terminates using defaults for every ambiguous factor.
func (e *Engine) Resolve(ctx context.Context, userHash, query string, fieldAnswers map[string]string) (Resolution, error) {
	if err := e.admit(userHash); err != nil {
		return Resolution{}, err
	}
	start := time.Now()
	e.emit(telemetry.KindRequest, userHash, start)

	det, err := e.detector.Detect(query)
	if err != nil {
		e.emit(telemetry.KindError, userHash, start)
		return Resolution{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	questions := clarify.Questions(det.Factors)
	res, err := policy.Resolve(query, questions, nil, fieldAnswers, e.preferences(ctx, userHash))
	if err != nil {
		e.emit(telemetry.KindError, userHash, start)
		return Resolution{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e.remember(ctx, userHash, res.Remembered)
	e.emit(telemetry.KindResolution, userHash, start)
	return Resolution{Intent: res.Intent, Prompt: res.Prompt}, nil
}

// preferences loads the caller's stored preferences. Missing consent
// is not an error here: resolution falls back to defaults-only.
func (e *Engine) preferences(ctx context.Context, userHash string) map[string]string {
	stored, err := e.store.All(ctx, userHash)
	if err != nil {
		return nil
	}
	return stored
}

// remember writes answered rememberable fields back to the preference
// store. Best-effort: consent gating and storage failures never fail
// the resolution that produced them.
func (e *Engine) remember(ctx context.Context, userHash string, fields map[string]string) {
	for field, value := range fields {
		if err := e.store.Set(ctx, userHash, field, value, e.prefTTL); err != nil {
			return
		}
	}
}
