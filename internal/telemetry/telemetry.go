// Package telemetry is the injectable event-recording collaborator.
// The pipeline emits structured events through a Recorder; what
// happens to them (counting, file append, exposition) is this
// package's concern, never the pipeline's.
package telemetry

import (
	"sync"
	"time"
)

// Kind labels one category of pipeline event.
type Kind string

const (
	KindRequest       Kind = "request"
	KindAmbiguous     Kind = "ambiguous"
	KindClarification Kind = "clarification"
	KindResolution    Kind = "resolution"
	KindAnswer        Kind = "answer"
	KindError         Kind = "error"
)

// Event is one structured pipeline occurrence.
type Event struct {
	Kind      Kind           `json:"kind"`
	UserHash  string         `json:"user_hash,omitempty"`
	LatencyMS float64        `json:"latency_ms,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	TS        int64          `json:"ts"`
}

// Recorder receives pipeline events. Implementations must be safe for
// concurrent use and must never block the pipeline on I/O failures.
type Recorder interface {
	Record(Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(Event) {}

// Multi fans one event out to several recorders in order.
type Multi []Recorder

func (m Multi) Record(e Event) {
	for _, r := range m {
		r.Record(e)
	}
}

// Counters accumulates per-kind totals and request latency in memory.
type Counters struct {
	mu         sync.Mutex
	counts     map[Kind]int64
	latencySum float64
}

// NewCounters creates an empty Counters recorder.
func NewCounters() *Counters {
	return &Counters{counts: make(map[Kind]int64)}
}

// Record accumulates the event.
func (c *Counters) Record(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[e.Kind]++
	c.latencySum += e.LatencyMS
}

// Stats is a point-in-time snapshot of the counters.
type Stats struct {
	RequestsTotal       int64   `json:"requests_total"`
	AmbiguousTotal      int64   `json:"ambiguous_total"`
	ClarificationsTotal int64   `json:"clarifications_total"`
	ResolvedTotal       int64   `json:"resolved_total"`
	AnswerTotal         int64   `json:"answer_total"`
	ErrorsTotal         int64   `json:"errors_total"`
	LatencyMSSum        float64 `json:"latency_ms_sum"`
	AvgLatencyMS        float64 `json:"avg_latency_ms"`
}

// Snapshot returns the current totals. Average latency is computed
// over all requests seen so far.
func (c *Counters) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		RequestsTotal:       c.counts[KindRequest],
		AmbiguousTotal:      c.counts[KindAmbiguous],
		ClarificationsTotal: c.counts[KindClarification],
		ResolvedTotal:       c.counts[KindResolution],
		AnswerTotal:         c.counts[KindAnswer],
		ErrorsTotal:         c.counts[KindError],
		LatencyMSSum:        c.latencySum,
	}
	if s.RequestsTotal > 0 {
		s.AvgLatencyMS = c.latencySum / float64(s.RequestsTotal)
	}
	return s
}

// Now returns the current wall-clock timestamp in epoch milliseconds,
// the shared timestamp convention for events.
func Now() int64 {
	return time.Now().UnixMilli()
}
