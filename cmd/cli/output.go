package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.Bold)
	chargeColor = color.New(color.FgRed)
	creditColor = color.New(color.FgGreen)
)

// printTransactions renders txs as an aligned table. The amount column is
// last so color codes do not disturb the alignment.
func printTransactions(w io.Writer, bank string, txs []domain.Transaction) {
	headerColor.Fprintf(w, "%s: %d transactions\n\n", bank, len(txs))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tCONF\tREC\tAMOUNT")
	for _, tx := range txs {
		rec := ""
		if tx.IsRecurring {
			rec = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, truncate(tx.Description, 40), tx.SelectedCategory,
			tx.Confidence, rec, amountLabel(tx))
	}
	tw.Flush()
}

func amountLabel(tx domain.Transaction) string {
	if tx.Type == domain.TxCredit {
		return creditColor.Sprint("+" + tx.Amount.String())
	}
	return chargeColor.Sprint("-" + tx.Amount.String())
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
