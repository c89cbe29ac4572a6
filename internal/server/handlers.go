package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mohdibrahimai/uire/internal/clarify"
	"github.com/mohdibrahimai/uire/internal/engine"
	"github.com/mohdibrahimai/uire/internal/policy"
	"github.com/mohdibrahimai/uire/internal/prefs"
	"github.com/mohdibrahimai/uire/internal/session"
	"github.com/mohdibrahimai/uire/internal/synth"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEngineError maps the pipeline's error taxonomy to HTTP status
// codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrRateLimited):
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, prefs.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, prefs.ErrConsentRequired):
		writeJSONError(w, http.StatusForbidden, "consent required")
	case errors.Is(err, prefs.ErrInvalidTTL):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.Write([]byte(s.counters.PrometheusText()))
}

type detectRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := s.engine.Detect(r.Context(), s.callerHash(r), req.Query)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type clarifyResponse struct {
	SessionID    string             `json:"session_id"`
	State        session.State      `json:"state"`
	Questions    []clarify.Question `json:"questions"`
	MaxQuestions int                `json:"max_questions"`
	Intent       *policy.Intent     `json:"intent,omitempty"`
	FinalPrompt  string             `json:"final_prompt,omitempty"`
}

func (s *Server) handleClarify(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !decode(w, r, &req) {
		return
	}

	sess, err := s.engine.Clarify(r.Context(), s.callerHash(r), req.Query)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := clarifyResponse{
		SessionID:    sess.ID,
		State:        sess.State,
		Questions:    sess.Questions,
		MaxQuestions: clarify.MaxQuestions,
	}
	if sess.State == session.StateResolved {
		intent := sess.Intent
		resp.Intent = &intent
		resp.FinalPrompt = sess.Prompt
	}
	writeJSON(w, http.StatusOK, resp)
}

type answerRequest struct {
	SessionID string            `json:"session_id"`
	Answers   map[string]string `json:"answers"`
}

type resolveResponse struct {
	Intent      policy.Intent `json:"intent"`
	FinalPrompt string        `json:"final_prompt"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}

	sess, err := s.engine.Answer(r.Context(), s.callerHash(r), req.SessionID, req.Answers)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Intent: sess.Intent, FinalPrompt: sess.Prompt})
}

type resolveRequest struct {
	Query   string            `json:"query"`
	Answers map[string]string `json:"answers"` // field name -> value
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := s.engine.Resolve(r.Context(), s.callerHash(r), req.Query, req.Answers)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{Intent: res.Intent, FinalPrompt: res.Prompt})
}

type memoryResponse struct {
	Prefs map[string]string `json:"prefs"`
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.All(r.Context(), s.callerHash(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{Prefs: stored})
}

type memorySetRequest struct {
	Prefs map[string]string `json:"prefs"`
}

func (s *Server) handleSetMemory(w http.ResponseWriter, r *http.Request) {
	var req memorySetRequest
	if !decode(w, r, &req) {
		return
	}

	user := s.callerHash(r)
	for field, value := range req.Prefs {
		if err := s.store.Set(r.Context(), user, field, value, s.cfg.PreferenceTTL); err != nil {
			writeEngineError(w, err)
			return
		}
	}

	stored, err := s.store.All(r.Context(), user)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{Prefs: stored})
}

func (s *Server) handleClearMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearUser(r.Context(), s.callerHash(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

type consentRequest struct {
	Accepted bool `json:"accepted"`
}

func (s *Server) handleGetConsent(w http.ResponseWriter, r *http.Request) {
	granted, err := s.store.Consent(r.Context(), s.callerHash(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": granted})
}

func (s *Server) handleSetConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.store.SetConsent(r.Context(), s.callerHash(r), req.Accepted); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": req.Accepted})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counters.Snapshot())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.sink == nil {
		writeJSONError(w, http.StatusNotFound, "event log disabled")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="events.jsonl"`)
	w.Header().Set("Content-Type", "application/jsonl")
	http.ServeFile(w, r, s.sink.Path())
}

func (s *Server) handleBench(w http.ResponseWriter, r *http.Request) {
	sum, err := synth.Run(s.cfg.BenchDataset, s.detector)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
