package bankadapter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/spreadsheet"
	"github.com/dvloznov/statement-importer/internal/textnorm"
	"github.com/shopspring/decimal"
)

var (
	fullDatePattern  = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4}|\d{2})$`)
	dayMonthPattern  = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})$`)
	allDigitsPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
	amountStrip      = regexp.MustCompile(`[^0-9.,\-]`)

	// excelEpoch is day 1 of the 1900 date system. Serials are offset by two:
	// one because day 1 is Jan 1, and one for the phantom Feb 29 1900.
	excelEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

	genericDateLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006/01/02",
		"02 Jan 2006",
		"2 Jan 2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

// NormalizeHeader lower-cases, trims and strips diacritics from a header label.
func NormalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(textnorm.StripAccents(s)))
}

// NormalizeDescription trims, collapses internal whitespace and upper-cases.
func NormalizeDescription(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// ParseAmount reads a locale formatted amount ("1.234,56"). Number cells are
// taken as-is. Unparsable and non-positive values yield zero.
func ParseAmount(c spreadsheet.Cell) decimal.Decimal {
	if c.Kind == spreadsheet.CellNumber {
		if c.Number <= 0 || math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(c.Number)
	}

	s := amountStrip.ReplaceAllString(c.String(), "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

// NormalizeDate converts a date cell to DD/MM/YYYY. year is used for
// day/month-only values and may be zero when the bank never omits it.
// Values that cannot be interpreted are returned trimmed but unchanged.
func NormalizeDate(c spreadsheet.Cell, year int) string {
	raw := c.String()

	if c.Kind == spreadsheet.CellNumber {
		if s, ok := fromExcelSerial(c.Number); ok {
			return s
		}
		return raw
	}

	if allDigitsPattern.MatchString(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			if s, ok := fromExcelSerial(n); ok {
				return s
			}
		}
	}

	if m := fullDatePattern.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf("%s/%s/%s", pad2(m[1]), pad2(m[2]), expandYear(m[3]))
	}

	if m := dayMonthPattern.FindStringSubmatch(raw); m != nil && year > 0 {
		return fmt.Sprintf("%s/%s/%04d", pad2(m[1]), pad2(m[2]), year)
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(domain.DateLayout)
		}
	}

	return raw
}

func fromExcelSerial(n float64) (string, bool) {
	if n <= 1 || n >= 1000000 {
		return "", false
	}
	days := int(math.Floor(n)) - 2
	return excelEpoch.AddDate(0, 0, days).Format(domain.DateLayout), true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func expandYear(y string) string {
	if len(y) == 4 {
		return y
	}
	n, _ := strconv.Atoi(y)
	if n < 50 {
		return fmt.Sprintf("20%02d", n)
	}
	return fmt.Sprintf("19%02d", n)
}
