package bankadapter

import (
	"testing"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/spreadsheet"
	"github.com/stretchr/testify/assert"
)

type stubAdapter struct {
	name   string
	detect func(*spreadsheet.Sheet) bool
}

func (s stubAdapter) BankName() string { return s.name }

func (s stubAdapter) Detect(sheet *spreadsheet.Sheet) bool { return s.detect(sheet) }

func (s stubAdapter) Parse(*spreadsheet.Sheet) ([]domain.ParsedTransaction, error) { return nil, nil }

func TestRegistry_Resolve(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{FalabellaBankName, SantanderBankName}, r.BankNames())

	if a := r.Resolve(falabellaSheet()); assert.NotNil(t, a) {
		assert.Equal(t, FalabellaBankName, a.BankName())
	}
	if a := r.Resolve(santanderSheet()); assert.NotNil(t, a) {
		assert.Equal(t, SantanderBankName, a.BankName())
	}

	unknown := spreadsheet.FromStrings("x", [][]string{{"date", "payee", "amount"}})
	assert.Nil(t, r.Resolve(&unknown))
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	always := func(*spreadsheet.Sheet) bool { return true }
	r := NewRegistry(stubAdapter{"A", always}, stubAdapter{"B", always})

	assert.Equal(t, "A", r.Resolve(&spreadsheet.Sheet{}).BankName())
}

func TestRegistry_PanickingDetectIsNotDetected(t *testing.T) {
	boom := stubAdapter{"Boom", func(*spreadsheet.Sheet) bool { panic("boom") }}
	ok := stubAdapter{"Ok", func(*spreadsheet.Sheet) bool { return true }}

	r := NewRegistry(boom, ok)
	assert.Equal(t, "Ok", r.Resolve(&spreadsheet.Sheet{}).BankName())
}

func TestRegistry_RegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry(NewFalabella())
	assert.Panics(t, func() { r.Register(NewFalabella()) })
}

func TestDetectionExclusivity(t *testing.T) {
	sheets := map[string]*spreadsheet.Sheet{
		"falabella": falabellaSheet(),
		"santander": santanderSheet(),
	}

	for name, sheet := range sheets {
		t.Run(name, func(t *testing.T) {
			matches := 0
			for _, a := range Default().Adapters() {
				if a.Detect(sheet) {
					matches++
				}
			}
			assert.Equal(t, 1, matches)
		})
	}
}
