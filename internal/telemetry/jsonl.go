package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileSink appends events to a JSONL file. Writes are best-effort:
// failures are logged and never surfaced to the pipeline.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates the sink and its parent directory.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating events log directory: %w", err)
	}
	return &FileSink{path: path}, nil
}

// Path returns the JSONL file location, for export handlers.
func (s *FileSink) Path() string {
	return s.path
}

// Record appends the event as one JSON line.
func (s *FileSink) Record(e Event) {
	line, err := json.Marshal(e)
	if err != nil {
		log.Printf("telemetry: marshalling event: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("telemetry: opening events log: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("telemetry: appending event: %v", err)
	}
}
