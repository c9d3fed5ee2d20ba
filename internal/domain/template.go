package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTemplate is wrapped by every template validation failure.
var ErrInvalidTemplate = errors.New("invalid template")

// TemplateRule maps a set of keywords to a category.
type TemplateRule struct {
	Keywords   []string   `json:"keywords" yaml:"keywords"`
	Category   Category   `json:"category" yaml:"category"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// CategoryTemplate is a user-authored, ordered rule set consulted before the
// built-in keyword tables.
type CategoryTemplate struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Rules     []TemplateRule `json:"rules" yaml:"rules"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// Validate checks that every rule has a usable keyword, a category from the
// vocabulary and a high or medium confidence.
func (t CategoryTemplate) Validate() error {
	if len(t.Rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidTemplate)
	}
	for i, r := range t.Rules {
		if !hasKeyword(r.Keywords) {
			return fmt.Errorf("%w: rule %d has no keywords", ErrInvalidTemplate, i)
		}
		if !r.Category.Valid() {
			return fmt.Errorf("%w: rule %d: unknown category %q", ErrInvalidTemplate, i, r.Category)
		}
		if r.Confidence != ConfidenceHigh && r.Confidence != ConfidenceMedium {
			return fmt.Errorf("%w: rule %d: confidence must be high or medium, got %q", ErrInvalidTemplate, i, r.Confidence)
		}
	}
	return nil
}

// Normalize canonicalizes category spelling and trims keywords. Rules with an
// unknown category are left untouched so Validate can report them.
func (t CategoryTemplate) Normalize() CategoryTemplate {
	out := t
	out.Name = strings.TrimSpace(t.Name)
	out.Rules = make([]TemplateRule, len(t.Rules))
	for i, r := range t.Rules {
		if c, ok := ParseCategory(string(r.Category)); ok {
			r.Category = c
		}
		r.Confidence = Confidence(strings.ToLower(strings.TrimSpace(string(r.Confidence))))
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				kws = append(kws, kw)
			}
		}
		r.Keywords = kws
		out.Rules[i] = r
	}
	return out
}

func hasKeyword(keywords []string) bool {
	for _, kw := range keywords {
		if strings.TrimSpace(kw) != "" {
			return true
		}
	}
	return false
}
