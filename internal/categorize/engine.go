// Package categorize suggests a category for a transaction description using
// user templates first, then built-in keyword tables.
package categorize

import (
	"strings"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/textnorm"
)

// TemplateSource supplies the user's category templates in stored order.
type TemplateSource interface {
	Templates() []domain.CategoryTemplate
}

// Suggestion is the engine's answer for one description.
type Suggestion struct {
	Category   domain.Category   `json:"category"`
	Confidence domain.Confidence `json:"confidence"`
}

// Fallback is returned when nothing matches.
var Fallback = Suggestion{Category: domain.CategoryOther, Confidence: domain.ConfidenceLow}

// Engine is safe for concurrent use as long as its TemplateSource is.
type Engine struct {
	templates TemplateSource
}

// NewEngine creates an engine. templates may be nil.
func NewEngine(templates TemplateSource) *Engine {
	return &Engine{templates: templates}
}

// Suggest returns the category for description. It never performs I/O beyond
// reading the template source.
func (e *Engine) Suggest(description string, t domain.TxType) Suggestion {
	desc := textnorm.Key(description)

	if s, ok := e.fromTemplates(desc, t); ok {
		return s
	}

	high, medium := expenseHigh, expenseMedium
	if t == domain.TxCredit {
		high, medium = incomeHigh, incomeMedium
	}
	if c, ok := scan(high, desc); ok {
		return Suggestion{Category: c, Confidence: domain.ConfidenceHigh}
	}
	if c, ok := scan(medium, desc); ok {
		return Suggestion{Category: c, Confidence: domain.ConfidenceMedium}
	}

	return Fallback
}

func (e *Engine) fromTemplates(desc string, t domain.TxType) (Suggestion, bool) {
	if e == nil || e.templates == nil {
		return Suggestion{}, false
	}

	for _, tpl := range e.templates.Templates() {
		for _, rule := range tpl.Rules {
			category, ok := domain.ParseCategory(string(rule.Category))
			if !ok || !category.AdmissibleFor(t) {
				continue
			}
			if !matchesAny(desc, rule.Keywords) {
				continue
			}
			return Suggestion{Category: category, Confidence: ruleConfidence(rule.Confidence)}, true
		}
	}
	return Suggestion{}, false
}

// ruleConfidence reads a stored confidence; anything other than high is medium.
func ruleConfidence(c domain.Confidence) domain.Confidence {
	if strings.EqualFold(strings.TrimSpace(string(c)), string(domain.ConfidenceHigh)) {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}

func matchesAny(desc string, keywords []string) bool {
	for _, k := range keywords {
		k = textnorm.Key(k)
		if k != "" && strings.Contains(desc, k) {
			return true
		}
	}
	return false
}

func scan(rules []keywordRule, desc string) (domain.Category, bool) {
	for _, r := range rules {
		for _, f := range r.fragments {
			if strings.Contains(desc, f) {
				return r.category, true
			}
		}
	}
	return "", false
}
