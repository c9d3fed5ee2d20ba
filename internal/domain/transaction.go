package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the normalized date format emitted by every bank adapter.
const DateLayout = "02/01/2006"

// TxType tells whether money left the account (charge) or entered it (credit).
type TxType string

const (
	// TxCharge is an expense ("cargo").
	TxCharge TxType = "charge"
	// TxCredit is an income entry ("abono").
	TxCredit TxType = "credit"
)

// Wire returns the word used for the type at the AI classification boundary.
func (t TxType) Wire() string {
	if t == TxCredit {
		return "abono"
	}
	return "cargo"
}

// Valid reports whether t is one of the known types.
func (t TxType) Valid() bool {
	return t == TxCharge || t == TxCredit
}

// ParseTxType accepts both the English and the Spanish spelling.
func ParseTxType(s string) (TxType, bool) {
	switch s {
	case "charge", "cargo":
		return TxCharge, true
	case "credit", "abono":
		return TxCredit, true
	}
	return "", false
}

// Confidence is the certainty of a category suggestion.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow marks items the heuristics could not resolve; they are
	// eligible for AI reclassification.
	ConfidenceLow Confidence = "low"
	// ConfidenceAI marks items whose category was supplied by the AI classifier.
	ConfidenceAI Confidence = "ai"
)

// ParsedTransaction is one row extracted by a bank adapter, before enrichment.
type ParsedTransaction struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TxType          `json:"type"`
}

// Time parses Date. ok is false when the adapter had to pass the date through
// unnormalized.
func (p ParsedTransaction) Time() (time.Time, bool) {
	return ParseDate(p.Date)
}

// Transaction is an enriched transaction owned by a review session.
type Transaction struct {
	ID int `json:"id"`
	ParsedTransaction

	SuggestedCategory Category   `json:"suggested_category"`
	Confidence        Confidence `json:"confidence"`
	SelectedCategory  Category   `json:"selected_category"`
	IsRecurring       bool       `json:"is_recurring"`
}

// ParseResult is the outcome of parsing one uploaded statement. On failure
// Transactions is empty and Error carries a human readable diagnostic.
type ParseResult struct {
	Success      bool                `json:"success"`
	Transactions []ParsedTransaction `json:"transactions"`
	Error        string              `json:"error,omitempty"`
	DetectedBank string              `json:"detected_bank,omitempty"`
}

// ParseDate parses a DD/MM/YYYY date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
