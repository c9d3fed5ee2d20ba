package session

import (
	"sort"

	"github.com/dvloznov/statement-importer/internal/categorize"
	"github.com/dvloznov/statement-importer/internal/domain"
)

// Suggester proposes a category for a description.
type Suggester interface {
	Suggest(description string, t domain.TxType) categorize.Suggestion
}

// RecurringDetector flags recurring charges.
type RecurringDetector interface {
	IsRecurring(description string) bool
}

// Enrich numbers the parsed rows from 1, attaches a category suggestion and
// the recurring flag, and sorts the result by date.
func Enrich(parsed []domain.ParsedTransaction, s Suggester, d RecurringDetector) []domain.Transaction {
	out := make([]domain.Transaction, len(parsed))
	for i, p := range parsed {
		tx := domain.Transaction{
			ID:                i + 1,
			ParsedTransaction: p,
			SuggestedCategory: categorize.Fallback.Category,
			Confidence:        categorize.Fallback.Confidence,
		}
		if s != nil {
			sug := s.Suggest(p.Description, p.Type)
			tx.SuggestedCategory, tx.Confidence = sug.Category, sug.Confidence
		}
		tx.SelectedCategory = tx.SuggestedCategory
		if d != nil {
			tx.IsRecurring = d.IsRecurring(p.Description)
		}
		out[i] = tx
	}
	sortByDate(out)
	return out
}

// sortByDate orders by date ascending with unparseable dates last, then by ID.
func sortByDate(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		ti, okI := txs[i].Time()
		tj, okJ := txs[j].Time()
		switch {
		case okI && okJ && !ti.Equal(tj):
			return ti.Before(tj)
		case okI != okJ:
			return okI
		}
		return txs[i].ID < txs[j].ID
	})
}
