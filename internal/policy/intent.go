package policy

import (
	"fmt"
	"strings"
)

// TaskType classifies what the downstream generation agent should do.
type TaskType string

const (
	TaskSummarize TaskType = "summarize"
	TaskTranslate TaskType = "translate"
	TaskRecommend TaskType = "recommend"
	TaskGeneral   TaskType = "general"
)

// Risk marks how costly a wrong assumption would be for this intent.
type Risk string

const (
	RiskNormal   Risk = "normal"
	RiskElevated Risk = "elevated"
)

// Intent is the fully resolved, structured representation of a query.
// Immutable once built; consumed only to render a prompt.
type Intent struct {
	TaskType TaskType `json:"task_type"`
	Criteria string   `json:"criteria"`
	Region   string   `json:"region"`
	Audience string   `json:"audience"`
	Length   string   `json:"length"`
	Language string   `json:"language"`
	Risk     Risk     `json:"risk"`
}

// lengthWords maps length option ids to approximate word counts used
// in rendered prompts.
var lengthWords = map[string]string{
	"short":  "~150",
	"medium": "~300",
	"long":   "~600",
}

// criteriaLabels maps criteria option ids to the phrasing used in
// rendered prompts.
var criteriaLabels = map[string]string{
	"fees":  "lowest fees",
	"speed": "fast process",
	"trust": "high trust/brand",
}

// Render fills the fixed prompt skeleton for the intent's task type.
// Pure and deterministic: identical intents render identical prompts.
func Render(intent Intent, query string) string {
	switch intent.TaskType {
	case TaskSummarize:
		words, ok := lengthWords[intent.Length]
		if !ok {
			words = lengthWords["short"]
		}
		return fmt.Sprintf("Summarize the provided content for a %s audience in %s words with citations.", intent.Audience, words)
	case TaskTranslate:
		return fmt.Sprintf("Translate the provided text into %s with natural tone and preserve formatting.", strings.ToUpper(intent.Language))
	case TaskRecommend:
		label, ok := criteriaLabels[intent.Criteria]
		if !ok {
			label = intent.Criteria
		}
		return fmt.Sprintf("Recommend suitable options in %s optimised for %s. Explain trade-offs and assumptions.", intent.Region, label)
	default:
		return query
	}
}
