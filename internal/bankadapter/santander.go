package bankadapter

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/spreadsheet"
)

// SantanderBankName identifies Banco Santander exports.
const SantanderBankName = "Banco Santander"

const (
	santanderMinRows    = 10
	santanderHeaderScan = 25
	santanderYearScan   = 10
)

// ErrSantanderHeader is returned when the transaction table header is missing.
var ErrSantanderHeader = errors.New("transaction header not found in Banco Santander statement")

var statementDatePattern = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)

// Santander reads the Banco Santander "cartola" export: a multi-row preamble
// (account holder, statement period) followed by a table whose dates only
// carry day and month.
type Santander struct {
	now func() time.Time
}

// NewSantander returns the Banco Santander adapter.
func NewSantander() *Santander { return &Santander{now: time.Now} }

// NewSantanderWithClock is NewSantander with an injectable clock, used as the
// fallback year source.
func NewSantanderWithClock(now func() time.Time) *Santander { return &Santander{now: now} }

func (s *Santander) BankName() string { return SantanderBankName }

func (s *Santander) Detect(sheet *spreadsheet.Sheet) bool {
	if sheet.Len() < santanderMinRows {
		return false
	}
	if NormalizeHeader(sheet.Row(0).Cell(0).String()) == "banco santander" {
		return true
	}
	_, _, ok := findSantanderHeader(sheet)
	return ok
}

func (s *Santander) Parse(sheet *spreadsheet.Sheet) ([]domain.ParsedTransaction, error) {
	header, cols, ok := findSantanderHeader(sheet)
	if !ok {
		return nil, ErrSantanderHeader
	}
	return extractRows(sheet, header, cols, s.statementYear(sheet)), nil
}

// statementYear takes the year of the first DD/MM/YYYY value in the preamble.
// Statements spanning a year boundary therefore date every row with the same
// year.
func (s *Santander) statementYear(sheet *spreadsheet.Sheet) int {
	for i := 0; i < santanderYearScan && i < sheet.Len(); i++ {
		for _, c := range sheet.Row(i) {
			if m := statementDatePattern.FindStringSubmatch(c.String()); m != nil {
				if y, err := strconv.Atoi(m[3]); err == nil {
					return y
				}
			}
		}
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().Year()
}

func findSantanderHeader(sheet *spreadsheet.Sheet) (int, columns, bool) {
	for i := 0; i < santanderHeaderScan && i < sheet.Len(); i++ {
		labels := headerLabels(sheet.Row(i))
		cols := columns{
			date:        indexOf(labels, "fecha"),
			description: indexContaining(labels, "descripcion"),
			charge:      indexContaining(labels, "cheques y otros cargos"),
			credit:      indexContaining(labels, "depositos y otros abonos"),
		}
		if cols.date >= 0 && cols.description >= 0 && cols.charge >= 0 && cols.credit >= 0 {
			return i, cols, true
		}
	}
	return -1, columns{}, false
}

func indexContaining(labels []string, fragment string) int {
	for i, l := range labels {
		if strings.Contains(l, fragment) {
			return i
		}
	}
	return -1
}
