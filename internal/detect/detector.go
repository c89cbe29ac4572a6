// Package detect scores raw queries for missing decision-relevant
// information. Detection is a pure function of the query text: a fixed
// rule table, no stored state, identical input always yields identical
// output. The rule table can be swapped for a learned model behind the
// same Detect contract.
package detect

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyQuery is returned for empty or whitespace-only input.
var ErrEmptyQuery = errors.New("query is empty")

// Result is the outcome of scoring one query.
type Result struct {
	Ambiguous  bool     `json:"ambiguous"`
	Confidence float64  `json:"confidence"`
	Factors    []Factor `json:"factors"`
}

// Detector applies the heuristic rule table. The confidence threshold
// is fixed at construction so Detect stays a pure function of text.
type Detector struct {
	threshold float64
}

// New creates a Detector with the given confidence threshold.
func New(threshold float64) *Detector {
	return &Detector{threshold: threshold}
}

const (
	baseWeight   = 0.3
	factorWeight = 0.2
)

var (
	vagueTerms = []string{"best", "cheapest", "fastest", "quickest", "ideal", "perfect"}
	regions    = []string{"india", "us", "usa", "europe", "eu", "uk", "canada"}

	pronounRe    = regexp.MustCompile(`\b(this|that|these|those|it|they)\b`)
	antecedentRe = regexp.MustCompile(`\b(file|document|text|paragraph|image|content|paper)\b`)
	summarizeRe  = regexp.MustCompile(`\bsummar(ize|ise|y)\b`)
	audienceRe   = regexp.MustCompile(`for\s+(kids|children|adults|experts|beginners)`)
	lengthRe     = regexp.MustCompile(`\b(short|brief|medium|long|~?\d+ words?)\b`)
	targetLangRe = regexp.MustCompile(`(to|into)\s+[a-z]+`)
	recommendRe  = regexp.MustCompile(`\b(recommend|best|suggest)\b`)
)

func containsAny(q string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}

// Detect scores the query. Empty or whitespace-only text fails with
// ErrEmptyQuery; no other input can fail.
func (d *Detector) Detect(query string) (Result, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{}, ErrEmptyQuery
	}

	seen := map[Factor]bool{}
	add := func(f Factor) {
		seen[f] = true
	}

	// Vague superlatives with no stated criteria.
	if containsAny(q, vagueTerms) {
		add(FactorCriteria)
	}

	// Bare pronoun with nothing it could refer to.
	if pronounRe.MatchString(q) && !antecedentRe.MatchString(q) {
		add(FactorReferent)
	}

	// Summarization needs an audience and a length.
	if summarizeRe.MatchString(q) {
		if !audienceRe.MatchString(q) {
			add(FactorAudience)
		}
		if !lengthRe.MatchString(q) {
			add(FactorLength)
		}
	}

	// Translation needs a target language.
	if strings.Contains(q, "translate") && !targetLangRe.MatchString(q) {
		add(FactorLanguage)
	}

	// Recommendations usually depend on region.
	if recommendRe.MatchString(q) && !containsAny(q, regions) {
		add(FactorRegion)
	}

	var factors []Factor
	for f := range seen {
		factors = append(factors, f)
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].Rank() < factors[j].Rank() })

	confidence := 0.0
	if len(factors) > 0 {
		confidence = baseWeight + factorWeight*float64(len(factors))
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	return Result{
		Ambiguous:  confidence > d.threshold || len(factors) > 0,
		Confidence: confidence,
		Factors:    factors,
	}, nil
}
