package engine

import "errors"

// The pipeline's error taxonomy. The transport layer maps these to
// status codes; nothing in here is ever retried internally.
var (
	// ErrInvalidInput covers empty queries and malformed answers.
	// Rejected synchronously; no state is mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited means admission was denied. The caller retries
	// later; no pipeline state was touched.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound covers unknown sessions and absent records.
	// Consent failures keep their own sentinel in the prefs package,
	// which owns that gate.
	ErrNotFound = errors.New("not found")
)
