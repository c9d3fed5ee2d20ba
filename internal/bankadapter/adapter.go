// Package bankadapter recognizes bank statement layouts and extracts their
// transactions.
package bankadapter

import (
	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/spreadsheet"
)

// Adapter extracts transactions from one bank's export layout.
type Adapter interface {
	// BankName is the human readable bank name reported to users.
	BankName() string

	// Detect reports whether the sheet looks like this bank's export. It
	// must not fail: anything unexpected means "not detected".
	Detect(sheet *spreadsheet.Sheet) bool

	// Parse extracts the transactions. It returns an error only when the
	// transaction table itself cannot be located.
	Parse(sheet *spreadsheet.Sheet) ([]domain.ParsedTransaction, error)
}

// columns holds the resolved indices of a transaction table, -1 when absent.
type columns struct {
	date        int
	description int
	charge      int
	credit      int
}

// extractRows applies the shared row rules to every row after the header:
// rows without date or description are skipped, the charge column wins over
// the credit column, and rows where both are zero are dropped.
func extractRows(sheet *spreadsheet.Sheet, header int, cols columns, year int) []domain.ParsedTransaction {
	var out []domain.ParsedTransaction

	for i := header + 1; i < sheet.Len(); i++ {
		row := sheet.Row(i)

		dateCell := row.Cell(cols.date)
		desc := NormalizeDescription(row.Cell(cols.description).String())
		if dateCell.IsEmpty() || desc == "" {
			continue
		}

		charge := ParseAmount(row.Cell(cols.charge))
		credit := ParseAmount(row.Cell(cols.credit))

		tx := domain.ParsedTransaction{
			Date:        NormalizeDate(dateCell, year),
			Description: desc,
		}
		switch {
		case charge.IsPositive():
			tx.Type, tx.Amount = domain.TxCharge, charge
		case credit.IsPositive():
			tx.Type, tx.Amount = domain.TxCredit, credit
		default:
			continue
		}

		out = append(out, tx)
	}

	return out
}

// headerLabels returns the normalized labels of a row.
func headerLabels(row spreadsheet.Row) []string {
	labels := make([]string, len(row))
	for i, c := range row {
		labels[i] = NormalizeHeader(c.String())
	}
	return labels
}

// indexOf returns the first label equal to any of names, or -1.
func indexOf(labels []string, names ...string) int {
	for i, l := range labels {
		for _, n := range names {
			if l == n {
				return i
			}
		}
	}
	return -1
}
