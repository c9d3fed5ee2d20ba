package bankadapter

import (
	"errors"

	"github.com/dvloznov/statement-importer/internal/domain"
	"github.com/dvloznov/statement-importer/internal/spreadsheet"
)

// FalabellaBankName identifies Banco Falabella exports.
const FalabellaBankName = "Banco Falabella"

var errFalabellaHeader = errors.New("fecha/descripcion columns not found in Banco Falabella statement")

// Falabella reads the single-header-row export of Banco Falabella:
//
//	fecha | descripcion | cargo | abono
type Falabella struct{}

// NewFalabella returns the Banco Falabella adapter.
func NewFalabella() *Falabella { return &Falabella{} }

func (Falabella) BankName() string { return FalabellaBankName }

// Detect requires the first row to carry all four signature columns.
func (Falabella) Detect(sheet *spreadsheet.Sheet) bool {
	if sheet.Len() == 0 {
		return false
	}
	labels := headerLabels(sheet.Row(0))
	for _, want := range []string{"fecha", "descripcion", "cargo", "abono"} {
		if indexOf(labels, want) < 0 {
			return false
		}
	}
	return true
}

func (Falabella) Parse(sheet *spreadsheet.Sheet) ([]domain.ParsedTransaction, error) {
	if sheet.Len() == 0 {
		return nil, errFalabellaHeader
	}

	labels := headerLabels(sheet.Row(0))
	cols := columns{
		date:        indexOf(labels, "fecha", "date"),
		description: indexOf(labels, "descripcion", "description"),
		charge:      indexOf(labels, "cargo"),
		credit:      indexOf(labels, "abono"),
	}
	if cols.date < 0 || cols.description < 0 {
		return nil, errFalabellaHeader
	}

	return extractRows(sheet, 0, cols, 0), nil
}
