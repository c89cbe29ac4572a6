// Package prefs is the TTL-bounded per-user preference and consent
// store. Every record is keyed by the salted user hash; raw caller
// identifiers never reach this package. Reads never return expired
// values even if the periodic sweep has not run yet.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mohdibrahimai/uire/internal/db"
)

var (
	// ErrConsentRequired is returned for preference reads and writes
	// against a user who has not granted consent.
	ErrConsentRequired = errors.New("consent required")

	// ErrNotFound is returned when a preference is absent or expired.
	ErrNotFound = errors.New("preference not found")

	// ErrInvalidTTL is returned for zero or negative TTLs.
	ErrInvalidTTL = errors.New("ttl must be positive")
)

// Store provides preference and consent persistence over SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

func (s *Store) nowMS() int64 {
	return s.now().UnixMilli()
}

// Consent reports whether the user has granted consent. Absence of a
// consent record means no consent.
func (s *Store) Consent(ctx context.Context, userHash string) (bool, error) {
	var granted int
	err := s.db.QueryRowContext(ctx, `SELECT granted FROM consent WHERE user_hash = ?`, userHash).Scan(&granted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading consent: %w", err)
	}
	return granted != 0, nil
}

// SetConsent records the user's consent decision. Revoking consent
// does not delete stored preferences; callers wanting a full opt-out
// combine this with ClearUser.
func (s *Store) SetConsent(ctx context.Context, userHash string, granted bool) error {
	g := 0
	if granted {
		g = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO consent (user_hash, granted, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_hash) DO UPDATE SET granted = excluded.granted, updated_at = excluded.updated_at`,
		userHash, g, s.nowMS())
	if err != nil {
		return fmt.Errorf("writing consent: %w", err)
	}
	return nil
}

func (s *Store) requireConsent(ctx context.Context, userHash string) error {
	granted, err := s.Consent(ctx, userHash)
	if err != nil {
		return err
	}
	if !granted {
		return ErrConsentRequired
	}
	return nil
}

// Set stores a preference with an absolute expiry of now + ttl.
// It fails with ErrInvalidTTL for non-positive TTLs and with
// ErrConsentRequired when the user has not opted in.
func (s *Store) Set(ctx context.Context, userHash, field, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if err := s.requireConsent(ctx, userHash); err != nil {
		return err
	}

	expires := s.now().Add(ttl).UnixMilli()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_hash, field, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_hash, field) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		userHash, field, value, expires)
	if err != nil {
		return fmt.Errorf("writing preference: %w", err)
	}
	return nil
}

// Get returns the stored value for the field. Expired records are
// treated as absent regardless of whether the sweep has reclaimed
// them yet.
func (s *Store) Get(ctx context.Context, userHash, field string) (string, error) {
	if err := s.requireConsent(ctx, userHash); err != nil {
		return "", err
	}

	var value string
	var expires int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM preferences WHERE user_hash = ? AND field = ?`,
		userHash, field).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading preference: %w", err)
	}
	if expires <= s.nowMS() {
		return "", ErrNotFound
	}
	return value, nil
}

// All returns every unexpired preference for the user.
func (s *Store) All(ctx context.Context, userHash string) (map[string]string, error) {
	if err := s.requireConsent(ctx, userHash); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT field, value FROM preferences WHERE user_hash = ? AND expires_at > ?`,
		userHash, s.nowMS())
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		out[field] = value
	}
	return out, rows.Err()
}

// Delete removes one preference. Deletion honors opt-out and is always
// permitted, consent or not.
func (s *Store) Delete(ctx context.Context, userHash, field string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE user_hash = ? AND field = ?`, userHash, field)
	if err != nil {
		return fmt.Errorf("deleting preference: %w", err)
	}
	return nil
}

// ClearUser removes every preference for the user. Always permitted.
func (s *Store) ClearUser(ctx context.Context, userHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE user_hash = ?`, userHash)
	if err != nil {
		return fmt.Errorf("clearing preferences: %w", err)
	}
	return nil
}
