package synth

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mohdibrahimai/uire/internal/detect"
)

func TestGenerateDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Generate(&a, 50, 42); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := Generate(&b, 50, 42); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("same seed produced different datasets")
	}

	var c bytes.Buffer
	if err := Generate(&c, 50, 7); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.String() == c.String() {
		t.Errorf("different seeds produced identical datasets")
	}
}

func TestGenerateWellFormed(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, 20, 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	count := 0
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var s Sample
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			t.Fatalf("invalid line %q: %v", scanner.Text(), err)
		}
		if s.Query == "" || s.Domain == "" {
			t.Errorf("incomplete sample: %+v", s)
		}
		count++
	}
	if count != 20 {
		t.Errorf("generated %d lines, want 20", count)
	}
}

func TestRunReader(t *testing.T) {
	dataset := strings.Join([]string{
		`{"query":"Give me a summary","domain":"general"}`,
		`{"query":"Translate the text into spanish","domain":"general"}`,
		`{"query":"Find me the best bank account","domain":"finance"}`,
	}, "\n")

	sum, err := RunReader(strings.NewReader(dataset), detect.New(0.25))
	if err != nil {
		t.Fatalf("RunReader: %v", err)
	}
	if sum.Total != 3 {
		t.Errorf("Total = %d, want 3", sum.Total)
	}
	if sum.Flagged != 2 {
		t.Errorf("Flagged = %d, want 2", sum.Flagged)
	}
	if sum.FlagRate < 0.66 || sum.FlagRate > 0.67 {
		t.Errorf("FlagRate = %g, want ~0.667", sum.FlagRate)
	}
}
