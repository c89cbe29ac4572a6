// Package synth generates and replays the synthetic benchmark dataset
// used to sanity-check detector flag rates.
package synth

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/mohdibrahimai/uire/internal/detect"
)

// Sample is one benchmark record.
type Sample struct {
	Query  string `json:"query"`
	Domain string `json:"domain"`
}

var domains = []string{"general", "finance", "medical", "legal", "travel", "education"}

var queries = []string{
	"Summarize this article",
	"Translate this paragraph",
	"Find me the best bank account",
	"Plan a trip",
	"Recommend a laptop",
	"Open an account quickly",
	"What's the fastest way to lose weight?",
	"Explain GDPR for me",
	"Give me a summary",
	"Best plan please",
}

// Generate writes n samples as JSONL. The same seed always produces
// the same dataset.
func Generate(w io.Writer, n int, seed int64) error {
	rnd := rand.New(rand.NewSource(seed))
	enc := json.NewEncoder(w)
	for i := 0; i < n; i++ {
		s := Sample{
			Query:  queries[rnd.Intn(len(queries))],
			Domain: domains[rnd.Intn(len(domains))],
		}
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("writing sample %d: %w", i, err)
		}
	}
	return nil
}

// Summary reports how a dataset scored against the detector.
type Summary struct {
	Total    int     `json:"total"`
	Flagged  int     `json:"flagged"`
	FlagRate float64 `json:"flag_rate"`
}

// Run scores every sample in the JSONL dataset at path.
func Run(path string, d *detect.Detector) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return RunReader(f, d)
}

// RunReader scores every sample read from r.
func RunReader(r io.Reader, d *detect.Detector) (Summary, error) {
	var sum Summary
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var s Sample
		if err := json.Unmarshal(line, &s); err != nil {
			return Summary{}, fmt.Errorf("parsing sample %d: %w", sum.Total+1, err)
		}
		sum.Total++
		res, err := d.Detect(s.Query)
		if err != nil {
			continue // empty queries in the dataset just don't count as flagged
		}
		if res.Ambiguous {
			sum.Flagged++
		}
	}
	if err := scanner.Err(); err != nil {
		return Summary{}, fmt.Errorf("reading dataset: %w", err)
	}
	if sum.Total > 0 {
		sum.FlagRate = float64(sum.Flagged) / float64(sum.Total)
	}
	return sum, nil
}
