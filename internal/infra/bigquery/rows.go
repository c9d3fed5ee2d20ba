package bigquery

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportRow is one uploaded statement.
type ImportRow struct {
	ImportID         string              `bigquery:"import_id"` // REQUIRED
	Filename         string              `bigquery:"filename"`
	Bank             string              `bigquery:"bank"`
	GCSURI           bigquery.NullString `bigquery:"gcs_uri"` // NULLABLE when no bucket is configured
	ChecksumSHA256   string              `bigquery:"checksum_sha256"`
	TransactionCount int64               `bigquery:"transaction_count"`
	UploadTS         time.Time           `bigquery:"upload_ts"`
}

// TransactionRow is one enriched transaction of an import.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	ImportID      string `bigquery:"import_id"`      // REQUIRED
	LineNo        int64  `bigquery:"line_no"`        // session transaction ID

	TransactionDate bigquery.NullDate `bigquery:"transaction_date"` // NULL when the date was not normalized
	RawDate         string            `bigquery:"raw_date"`

	Description string   `bigquery:"description"`
	Amount      *big.Rat `bigquery:"amount"`    // NUMERIC
	Direction   string   `bigquery:"direction"` // charge | credit

	Category          string `bigquery:"category"`
	SuggestedCategory string `bigquery:"suggested_category"`
	Confidence        string `bigquery:"confidence"`
	IsRecurring       bool   `bigquery:"is_recurring"`

	CreatedTS time.Time `bigquery:"created_ts"`
}

// NewTransactionRows maps session transactions to rows of the given import.
func NewTransactionRows(importID string, txs []domain.Transaction, now time.Time) []*TransactionRow {
	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		row := &TransactionRow{
			TransactionID:     uuid.NewString(),
			ImportID:          importID,
			LineNo:            int64(tx.ID),
			RawDate:           tx.Date,
			Description:       tx.Description,
			Amount:            tx.Amount.Rat(),
			Direction:         string(tx.Type),
			Category:          string(tx.SelectedCategory),
			SuggestedCategory: string(tx.SuggestedCategory),
			Confidence:        string(tx.Confidence),
			IsRecurring:       tx.IsRecurring,
			CreatedTS:         now,
		}
		if t, ok := tx.Time(); ok {
			row.TransactionDate = bigquery.NullDate{Date: civil.DateOf(t), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// Transaction maps an archived row back to a session transaction. The amount
// is read with two decimal places.
func (r *TransactionRow) Transaction() (domain.Transaction, error) {
	amount := decimal.Zero
	if r.Amount != nil {
		var err error
		amount, err = decimal.NewFromString(r.Amount.FloatString(2))
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("transaction %s: amount: %w", r.TransactionID, err)
		}
	}
	t, ok := domain.ParseTxType(r.Direction)
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %s: unknown direction %q", r.TransactionID, r.Direction)
	}

	return domain.Transaction{
		ID: int(r.LineNo),
		ParsedTransaction: domain.ParsedTransaction{
			Date:        r.RawDate,
			Description: r.Description,
			Amount:      amount,
			Type:        t,
		},
		SuggestedCategory: domain.Category(r.SuggestedCategory),
		Confidence:        domain.Confidence(r.Confidence),
		SelectedCategory:  domain.Category(r.Category),
		IsRecurring:       r.IsRecurring,
	}, nil
}
