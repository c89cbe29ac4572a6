// Package clarify turns detected ambiguity factors into at most two
// single-choice micro-questions, each with a default so the pipeline
// can always proceed with zero answers.
package clarify

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mohdibrahimai/uire/internal/detect"
)

// MaxQuestions caps how many questions one detection may produce.
const MaxQuestions = 2

// Option is one selectable answer to a question.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is a single-choice micro-question with a default.
type Question struct {
	ID      string        `json:"id"`
	Factor  detect.Factor `json:"factor"`
	Text    string        `json:"question"`
	Options []Option      `json:"options"`
	Default string        `json:"default"`
}

// template is the static mapping from factor to question shape.
type template struct {
	text    string
	options []Option
	def     string
}

var templates = map[detect.Factor]template{
	detect.FactorCriteria: {
		text: "What matters most?",
		options: []Option{
			{ID: "fees", Label: "Lowest fees"},
			{ID: "speed", Label: "Fast process"},
			{ID: "trust", Label: "High trust/brand"},
		},
		def: "fees",
	},
	detect.FactorRegion: {
		text: "Which region?",
		options: []Option{
			{ID: "IN", Label: "India"},
			{ID: "US", Label: "United States"},
			{ID: "EU", Label: "Europe"},
		},
		def: "IN",
	},
	detect.FactorAudience: {
		text: "Who is the audience?",
		options: []Option{
			{ID: "simple", Label: "Layperson"},
			{ID: "expert", Label: "Expert"},
			{ID: "kids", Label: "Kids"},
		},
		def: "simple",
	},
	detect.FactorLength: {
		text: "Preferred length?",
		options: []Option{
			{ID: "short", Label: "~150 words"},
			{ID: "medium", Label: "~300 words"},
			{ID: "long", Label: "~600 words"},
		},
		def: "short",
	},
	detect.FactorLanguage: {
		text: "Target language?",
		options: []Option{
			{ID: "EN", Label: "English"},
			{ID: "HI", Label: "Hindi"},
			{ID: "ES", Label: "Spanish"},
			{ID: "UR", Label: "Urdu"},
		},
		def: "EN",
	},
	// FactorReferent has no template: there is no useful closed set of
	// antecedents to offer, so the resolver falls through to defaults.
}

// Questions builds the clarification questions for the given factors.
// Selection is deterministic: factors are ranked by the fixed priority
// order and the top two with templates win. Question IDs are fresh per
// call (they scope answers to one session).
func Questions(factors []detect.Factor) []Question {
	ranked := make([]detect.Factor, len(factors))
	copy(ranked, factors)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Rank() < ranked[j].Rank() })

	var qs []Question
	seen := map[detect.Factor]bool{}
	for _, f := range ranked {
		if len(qs) == MaxQuestions {
			break
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		tmpl, ok := templates[f]
		if !ok {
			continue
		}
		qs = append(qs, Question{
			ID:      "q" + uuid.New().String()[:8],
			Factor:  f,
			Text:    tmpl.text,
			Options: tmpl.options,
			Default: tmpl.def,
		})
	}
	return qs
}
