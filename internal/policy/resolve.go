// Package policy merges detected factors, user answers, and stored
// preferences into a structured Intent and renders the final prompt.
// The merge order is fixed: explicit answer, then stored preference,
// then question default, then the field's hardcoded default. A future
// adaptive policy can replace this ranking behind the same Resolve
// contract without changing Intent's shape.
package policy

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mohdibrahimai/uire/internal/clarify"
	"github.com/mohdibrahimai/uire/internal/detect"
)

// ErrUnknownQuestion is returned when an answer references a question
// that was never offered in this session.
var ErrUnknownQuestion = errors.New("answer references unknown question")

// ErrUnknownField is returned when a field-keyed answer names a field
// no Intent slot exists for.
var ErrUnknownField = errors.New("answer references unknown field")

// Field names the Intent slots a factor or preference can fill.
const (
	FieldCriteria = "criteria"
	FieldRegion   = "region"
	FieldAudience = "audience"
	FieldLength   = "length"
	FieldLanguage = "language"
)

// factorFields maps detected factors to the Intent field they gate.
var factorFields = map[detect.Factor]string{
	detect.FactorCriteria: FieldCriteria,
	detect.FactorRegion:   FieldRegion,
	detect.FactorAudience: FieldAudience,
	detect.FactorLength:   FieldLength,
	detect.FactorLanguage: FieldLanguage,
}

// FieldFor returns the Intent field a factor resolves into, if any.
func FieldFor(f detect.Factor) (string, bool) {
	field, ok := factorFields[f]
	return field, ok
}

// fieldDefaults are the last-resort values when neither an answer, a
// stored preference, nor a question default is available.
var fieldDefaults = map[string]string{
	FieldCriteria: "fees",
	FieldRegion:   "unspecified",
	FieldAudience: "simple",
	FieldLength:   "short",
	FieldLanguage: "EN",
}

// rememberable fields may be written back into the preference store
// after an explicit answer. Criteria is query-specific and never kept.
var rememberable = map[string]bool{
	FieldRegion:   true,
	FieldAudience: true,
	FieldLength:   true,
	FieldLanguage: true,
}

// Rememberable reports whether an answered field may be persisted.
func Rememberable(field string) bool {
	return rememberable[field]
}

var (
	summarizeRe = regexp.MustCompile(`\bsummar(ize|ise|y)\b`)
	recommendRe = regexp.MustCompile(`\b(best|recommend|suggest)\b`)
	highRiskRe  = regexp.MustCompile(`\b(medical|finance|legal)\b`)
	regionAlias = map[string]string{"IN": "IN", "INDIA": "IN", "US": "US", "USA": "US", "EU": "EU", "EUROPE": "EU"}
)

// InferTask classifies the query into one of the four task types.
// Unmatched text is general.
func InferTask(query string) TaskType {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "translate"):
		return TaskTranslate
	case summarizeRe.MatchString(q):
		return TaskSummarize
	case recommendRe.MatchString(q):
		return TaskRecommend
	default:
		return TaskGeneral
	}
}

// source records where a field's value came from, for risk derivation.
type source int

const (
	fromAnswer source = iota
	fromPreference
	fromQuestionDefault
	fromFieldDefault
)

// Resolution carries the Intent plus which answered fields are safe to
// remember.
type Resolution struct {
	Intent     Intent
	Prompt     string
	Remembered map[string]string // field -> answered value, rememberable only
}

// Resolve builds an Intent from the query, the questions offered this
// session, the caller's answers, and the caller's stored preferences
// (field -> value). Answers come in two shapes: keyed by question id
// (the session flow) or keyed directly by field name (the one-shot
// flow, where the caller never sees question ids). Both rank as
// explicit answers. Answers referencing unknown questions or fields
// fail; unanswered questions fall back to their defaults.
func Resolve(query string, questions []clarify.Question, answers, fieldAnswers, prefs map[string]string) (Resolution, error) {
	byID := make(map[string]clarify.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for id := range answers {
		if _, ok := byID[id]; !ok {
			return Resolution{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
		}
	}
	for field := range fieldAnswers {
		if _, ok := fieldDefaults[field]; !ok {
			return Resolution{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	values := make(map[string]string, len(fieldDefaults))
	sources := make(map[string]source, len(fieldDefaults))
	for field, def := range fieldDefaults {
		values[field] = def
		sources[field] = fromFieldDefault
	}

	// Stored preferences beat defaults.
	for field, v := range prefs {
		if _, known := fieldDefaults[field]; known && v != "" {
			values[field] = v
			sources[field] = fromPreference
		}
	}

	// Question defaults beat preferences only for fields that were
	// actually asked about and left unanswered with no stored value.
	remembered := map[string]string{}
	for _, q := range questions {
		field, ok := FieldFor(q.Factor)
		if !ok {
			continue
		}
		if chosen, answered := answers[q.ID]; answered {
			values[field] = optionValue(q, chosen)
			sources[field] = fromAnswer
			if Rememberable(field) {
				remembered[field] = values[field]
			}
		} else if sources[field] == fromFieldDefault {
			values[field] = q.Default
			sources[field] = fromQuestionDefault
		}
	}

	// Field-keyed answers rank as explicit answers too.
	for field, v := range fieldAnswers {
		if v == "" {
			continue
		}
		values[field] = v
		sources[field] = fromAnswer
		if Rememberable(field) {
			remembered[field] = v
		}
	}

	task := InferTask(query)

	intent := Intent{
		TaskType: task,
		Criteria: values[FieldCriteria],
		Region:   normalizeRegion(values[FieldRegion]),
		Audience: values[FieldAudience],
		Length:   values[FieldLength],
		Language: values[FieldLanguage],
		Risk:     deriveRisk(query, task, sources),
	}

	return Resolution{
		Intent:     intent,
		Prompt:     Render(intent, query),
		Remembered: remembered,
	}, nil
}

// optionValue validates a chosen option id against the question's
// options, falling back to the default for unknown choices.
func optionValue(q clarify.Question, chosen string) string {
	for _, o := range q.Options {
		if o.ID == chosen {
			return chosen
		}
	}
	return q.Default
}

// normalizeRegion folds common region spellings into their codes.
func normalizeRegion(region string) string {
	if region == "" || region == fieldDefaults[FieldRegion] {
		return fieldDefaults[FieldRegion]
	}
	up := strings.ToUpper(region)
	if code, ok := regionAlias[up]; ok {
		return code
	}
	return up
}

// deriveRisk elevates intents where a wrong assumption is expensive:
// translation or recommendation with the region or audience still on
// its hardcoded default, or a high-stakes domain keyword in the query.
func deriveRisk(query string, task TaskType, sources map[string]source) Risk {
	if highRiskRe.MatchString(strings.ToLower(query)) {
		return RiskElevated
	}
	if task == TaskTranslate || task == TaskRecommend {
		if sources[FieldRegion] == fromFieldDefault || sources[FieldAudience] == fromFieldDefault {
			return RiskElevated
		}
	}
	return RiskNormal
}
