// Package session tracks one query's journey from detection through
// clarification to a resolved intent. A session accepts exactly one
// batch of answers; once resolved it is terminal.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohdibrahimai/uire/internal/clarify"
	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/policy"
)

// State is the session lifecycle position.
type State string

const (
	StateAwaitingAnswers State = "awaiting_answers"
	StateResolved        State = "resolved"
)

var (
	// ErrNotFound is returned for unknown or expired session ids.
	ErrNotFound = errors.New("session not found")

	// ErrResolved is returned when answers arrive for a session that
	// already reached its terminal state.
	ErrResolved = errors.New("session already resolved")
)

// Session is one caller's in-flight resolution.
type Session struct {
	ID        string
	UserHash  string
	Query     string
	Detection detect.Result
	Questions []clarify.Question
	State     State
	Intent    policy.Intent
	Prompt    string
	UpdatedAt time.Time
}

// Store holds live sessions in memory. Sessions idle longer than the
// TTL are discarded; abandoning a session is always safe.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewStore creates a Store. idleTTL <= 0 disables idle expiry.
func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create registers a new session awaiting answers.
func (s *Store) Create(userHash, query string, det detect.Result, qs []clarify.Question) *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		UserHash:  userHash,
		Query:     query,
		Detection: det,
		Questions: qs,
		State:     StateAwaitingAnswers,
		UpdatedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a copy of the session.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		return Session{}, ErrNotFound
	}
	return *sess, nil
}

// Resolve transitions the session to its terminal state with the
// given intent and prompt. A second resolution fails with ErrResolved.
func (s *Store) Resolve(id string, intent policy.Intent, prompt string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		return Session{}, ErrNotFound
	}
	if sess.State == StateResolved {
		return Session{}, ErrResolved
	}

	sess.State = StateResolved
	sess.Intent = intent
	sess.Prompt = prompt
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// Purge drops idle sessions and returns how many were removed.
func (s *Store) Purge() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// expired assumes the caller holds at least a read lock.
func (s *Store) expired(sess *Session) bool {
	return s.idleTTL > 0 && s.now().Sub(sess.UpdatedAt) > s.idleTTL
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
