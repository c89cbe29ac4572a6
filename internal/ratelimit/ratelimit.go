// Package ratelimit gates pipeline entry with one token bucket per
// caller identity. Buckets are independent: a caller burning through
// its allowance never slows anyone else down.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out admission decisions per identity. Buckets are
// created full on first use and refill continuously.
type Limiter struct {
	refill rate.Limit
	burst  int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// New creates a Limiter where each identity may burst up to capacity
// requests and refills at refillPerSec tokens per second.
func New(capacity int, refillPerSec float64) *Limiter {
	return &Limiter{
		refill:  rate.Limit(refillPerSec),
		burst:   capacity,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether a request from the given identity is admitted,
// consuming one token if so. A rejected request consumes nothing.
func (l *Limiter) Allow(identity string) bool {
	return l.bucket(identity).Allow()
}

// allowAt is the test seam for Allow with an explicit clock.
func (l *Limiter) allowAt(identity string, now time.Time) bool {
	return l.bucket(identity).AllowN(now, 1)
}

func (l *Limiter) bucket(identity string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[identity]
	if !ok {
		b = rate.NewLimiter(l.refill, l.burst)
		l.buckets[identity] = b
	}
	return b
}

// Len returns the number of live buckets, for stats reporting.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
