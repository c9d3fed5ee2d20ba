package session

import (
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryTotal aggregates the active transactions of one selected category.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
	Charges  decimal.Decimal `json:"charges"`
	Credits  decimal.Decimal `json:"credits"`
}

// Summary describes the reviewed list.
type Summary struct {
	Bank         string          `json:"bank"`
	Transactions int             `json:"transactions"`
	Deleted      int             `json:"deleted"`
	Recurring    int             `json:"recurring"`
	AIClassified int             `json:"ai_classified"`
	TotalCharges decimal.Decimal `json:"total_charges"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

// Summary totals the active transactions per selected category, in
// vocabulary order. Categories without transactions are omitted.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Bank:         s.Bank,
		Transactions: len(s.transactions),
		Deleted:      len(s.deleted),
		TotalCharges: decimal.Zero,
		TotalCredits: decimal.Zero,
		ByCategory:   []CategoryTotal{},
	}

	totals := make(map[domain.Category]*CategoryTotal)
	for _, tx := range s.transactions {
		ct, ok := totals[tx.SelectedCategory]
		if !ok {
			ct = &CategoryTotal{Category: tx.SelectedCategory, Charges: decimal.Zero, Credits: decimal.Zero}
			totals[tx.SelectedCategory] = ct
		}
		ct.Count++

		if tx.Type == domain.TxCredit {
			ct.Credits = ct.Credits.Add(tx.Amount)
			sum.TotalCredits = sum.TotalCredits.Add(tx.Amount)
		} else {
			ct.Charges = ct.Charges.Add(tx.Amount)
			sum.TotalCharges = sum.TotalCharges.Add(tx.Amount)
		}
		if tx.IsRecurring {
			sum.Recurring++
		}
		if tx.Confidence == domain.ConfidenceAI {
			sum.AIClassified++
		}
	}

	for _, c := range domain.Categories() {
		if ct, ok := totals[c]; ok {
			sum.ByCategory = append(sum.ByCategory, *ct)
		}
	}
	return sum
}
