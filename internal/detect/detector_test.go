package detect

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectEmptyQuery(t *testing.T) {
	d := New(0.25)
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := d.Detect(q); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Detect(%q) err = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestDetectFactors(t *testing.T) {
	d := New(0.25)
	tests := []struct {
		name    string
		query   string
		factors []Factor
	}{
		{
			name:    "bare summary misses audience and length",
			query:   "give me a summary",
			factors: []Factor{FactorAudience, FactorLength},
		},
		{
			name:    "summary with audience and length is clear",
			query:   "summarize the report for experts in ~200 words",
			factors: nil,
		},
		{
			name:    "translate without target language",
			query:   "translate the document",
			factors: []Factor{FactorLanguage},
		},
		{
			name:    "translate with target language",
			query:   "translate the document into spanish",
			factors: nil,
		},
		{
			name:    "vague superlative recommendation",
			query:   "find me the best bank account",
			factors: []Factor{FactorCriteria, FactorRegion},
		},
		{
			name:    "recommendation with region is clear",
			query:   "recommend a credit card in canada",
			factors: nil,
		},
		{
			name:    "bare pronoun without antecedent",
			query:   "explain it please",
			factors: []Factor{FactorReferent},
		},
		{
			name:    "pronoun with antecedent is fine",
			query:   "explain this paragraph please",
			factors: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Detect(tt.query)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			var want []Factor
			if len(tt.factors) > 0 {
				want = tt.factors
			}
			if diff := cmp.Diff(want, res.Factors); diff != "" {
				t.Errorf("factors mismatch (-want +got):\n%s", diff)
			}
			if res.Ambiguous != (len(want) > 0) {
				t.Errorf("Ambiguous = %v with %d factors", res.Ambiguous, len(want))
			}
		})
	}
}

func TestDetectConfidence(t *testing.T) {
	d := New(0.25)

	res, err := d.Detect("give me a summary")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	// Two factors: 0.3 base + 2*0.2.
	if res.Confidence != 0.7 {
		t.Errorf("Confidence = %g, want 0.7", res.Confidence)
	}

	clear, err := d.Detect("summarize the report for experts in ~200 words")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if clear.Confidence != 0 || clear.Ambiguous {
		t.Errorf("clear query scored %+v", clear)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := New(0.25)
	first, err := d.Detect("find me the best bank account")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := d.Detect("find me the best bank account")
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("nondeterministic detection (-first +again):\n%s", diff)
		}
	}
}

func TestFactorRankOrder(t *testing.T) {
	order := []Factor{FactorCriteria, FactorRegion, FactorAudience, FactorLength, FactorLanguage, FactorReferent}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
	if Factor("mystery").Rank() <= FactorReferent.Rank() {
		t.Errorf("unknown factor should rank after known ones")
	}
}
