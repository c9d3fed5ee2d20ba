package notionsync

import (
	"strconv"
	"strings"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/textnorm"
	"github.com/jomei/notionapi"
)

// Property names of the transactions database.
const (
	PropDescription = "Description"
	PropDate        = "Date"
	PropAmount      = "Amount"
	PropType        = "Type"
	PropCategory    = "Category"
	PropConfidence  = "Confidence"
	PropRecurring   = "Recurring"
	PropBank        = "Bank"
	PropImportKey   = "Import Key"
	PropAccount     = "Account"
)

// ImportKey is the base identity of a transaction across uploads. Two rows of
// the same bank with equal date, amount, type and description share it; use
// ImportKeys to tell such rows of one statement apart.
func ImportKey(bank string, tx domain.Transaction) string {
	return strings.Join([]string{
		textnorm.Key(bank),
		tx.Date,
		tx.Amount.String(),
		string(tx.Type),
		textnorm.Key(tx.Description),
	}, "|")
}

// ImportKeys returns the Import Key of every transaction of one statement, in
// order. The first occurrence of a base key keeps it unchanged; the Nth
// identical row gets "|N" appended, so two equal fares on the same day stay
// two pages.
func ImportKeys(bank string, txs []domain.Transaction) []string {
	keys := make([]string, len(txs))
	occurrences := make(map[string]int, len(txs))
	for i, tx := range txs {
		base := ImportKey(bank, tx)
		occurrences[base]++
		if n := occurrences[base]; n > 1 {
			keys[i] = base + "|" + strconv.Itoa(n)
			continue
		}
		keys[i] = base
	}
	return keys
}

// TransactionToNotionProperties converts a reviewed transaction to Notion
// properties. The Account relation is set only when accountID is not empty.
func TransactionToNotionProperties(bank string, tx domain.Transaction, importKey, accountID string) notionapi.Properties {
	props := notionapi.Properties{
		PropDescription: notionapi.TitleProperty{
			Title: richText(tx.Description),
		},
		PropAmount: notionapi.NumberProperty{
			Number: tx.Amount.InexactFloat64(),
		},
		PropType: notionapi.SelectProperty{
			Select: notionapi.Option{Name: typeName(tx.Type)},
		},
		PropCategory: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.SelectedCategory)},
		},
		PropConfidence: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.Confidence)},
		},
		PropRecurring: notionapi.CheckboxProperty{
			Checkbox: tx.IsRecurring,
		},
		PropImportKey: notionapi.RichTextProperty{
			RichText: richText(importKey),
		},
	}

	// Unnormalized dates cannot be sent as a Notion date.
	if t, ok := tx.Time(); ok {
		d := notionapi.Date(t)
		props[PropDate] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &d},
		}
	}

	if bank != "" {
		props[PropBank] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: bank},
		}
	}

	if accountID != "" {
		props[PropAccount] = notionapi.RelationProperty{
			Relation: []notionapi.Relation{{ID: notionapi.PageID(accountID)}},
		}
	}

	return props
}

func typeName(t domain.TxType) string {
	if t == domain.TxCredit {
		return "Credit"
	}
	return "Charge"
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

// extractImportKey returns the Import Key of an existing page, or "" when the
// page has none.
func extractImportKey(page notionapi.Page) string {
	if prop, ok := page.Properties[PropImportKey]; ok {
		if rt, ok := prop.(*notionapi.RichTextProperty); ok {
			var b strings.Builder
			for _, part := range rt.RichText {
				b.WriteString(part.PlainText)
			}
			return b.String()
		}
	}
	return ""
}
