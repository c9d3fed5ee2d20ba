// Package aiclassify sends low-confidence transactions to an LLM in a single
// batch and applies the categories it returns.
package aiclassify

//go:generate mockgen -source=classifier.go -destination=mocks/mock_classifier.go -package=mocks

import (
	"context"
	"errors"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/logger"
)

// ErrUnavailable is returned by classifiers that are not configured.
var ErrUnavailable = errors.New("ai classifier not configured")

// Item is one transaction queued for classification. Index is its position in
// the batch.
type Item struct {
	Index           int    `json:"index"`
	Description     string `json:"description"`
	TransactionType string `json:"transaction_type"`
}

// Result is the classifier's answer for the item with the same Index.
type Result struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
}

// Classifier is the batch classification boundary.
type Classifier interface {
	// Available reports whether the classifier can be called at all.
	Available() bool
	// ClassifyBatch classifies every item in one request.
	ClassifyBatch(ctx context.Context, items []Item) ([]Result, error)
}

// Outcome summarizes one Apply run.
type Outcome struct {
	Queued     int   `json:"queued"`
	Classified int   `json:"classified"`
	Err        error `json:"-"`
}

// Apply classifies every low-confidence transaction in txs with at most one
// classifier call and updates txs in place.
//
// A returned admissible category becomes both the suggested and the selected
// category with confidence ai. Items without a usable answer are set to Other
// and keep confidence low. When the call fails nothing is changed and the
// error is reported in the outcome.
func Apply(ctx context.Context, c Classifier, txs []domain.Transaction) Outcome {
	log := logger.FromContext(ctx)

	var (
		items []Item
		pos   []int
	)
	for i, tx := range txs {
		if tx.Confidence != domain.ConfidenceLow {
			continue
		}
		items = append(items, Item{
			Index:           len(items),
			Description:     tx.Description,
			TransactionType: tx.Type.Wire(),
		})
		pos = append(pos, i)
	}

	out := Outcome{Queued: len(items)}
	if len(items) == 0 || c == nil || !c.Available() {
		return out
	}

	results, err := c.ClassifyBatch(ctx, items)
	if err != nil {
		log.Error().Err(err).Int("items", len(items)).Msg("AI classification failed")
		out.Err = err
		return out
	}

	byIndex := make(map[int]string, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(items) {
			continue
		}
		if _, seen := byIndex[r.Index]; seen {
			continue
		}
		byIndex[r.Index] = r.Category
	}

	for i, p := range pos {
		tx := &txs[p]
		category, ok := domain.ParseCategory(byIndex[i])
		if ok && category.AdmissibleFor(tx.Type) {
			tx.SuggestedCategory = category
			tx.SelectedCategory = category
			tx.Confidence = domain.ConfidenceAI
			out.Classified++
			continue
		}
		tx.SuggestedCategory = domain.CategoryOther
		tx.SelectedCategory = domain.CategoryOther
		tx.Confidence = domain.ConfidenceLow
	}

	log.Info().
		Int("queued", out.Queued).
		Int("classified", out.Classified).
		Msg("AI classification applied")

	return out
}
