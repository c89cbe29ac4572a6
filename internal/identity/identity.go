// Package identity derives stable, salted caller hashes. Raw caller
// identifiers never leave this package; every store and log downstream
// only ever sees the hash.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces salted identity hashes.
type Hasher struct {
	salt string
}

// NewHasher creates a Hasher with the given salt.
func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Hash returns a 16-character hex digest of the raw identity under the
// configured salt. Identical input always yields the same hash.
func (h *Hasher) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw + "|" + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}
