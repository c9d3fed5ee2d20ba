package bankadapter

import (
	"testing"

	"github.com/dvloznov/statement-importer/internal/spreadsheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		cell spreadsheet.Cell
		year int
		want string
	}{
		{"dash to slash", spreadsheet.TextCell("15-03-2024"), 0, "15/03/2024"},
		{"slash passthrough", spreadsheet.TextCell("15/03/2024"), 0, "15/03/2024"},
		{"single digit day and month", spreadsheet.TextCell("5/3/2024"), 0, "05/03/2024"},
		{"two digit year below 50", spreadsheet.TextCell("15/03/24"), 0, "15/03/2024"},
		{"two digit year from 50", spreadsheet.TextCell("15-03-98"), 0, "15/03/1998"},
		{"day month with year", spreadsheet.TextCell("07/01"), 2023, "07/01/2023"},
		{"day month dash with year", spreadsheet.TextCell("7-1"), 2023, "07/01/2023"},
		{"day month without year passes through", spreadsheet.TextCell("07/01"), 0, "07/01"},
		{"excel serial number cell", spreadsheet.NumberCell(45000), 0, "15/03/2023"},
		{"excel serial with time fraction", spreadsheet.NumberCell(45366.75), 0, "15/03/2024"},
		{"excel serial as text", spreadsheet.TextCell("45366"), 0, "15/03/2024"},
		{"serial out of range", spreadsheet.NumberCell(1), 0, "1"},
		{"iso date", spreadsheet.TextCell("2024-03-15"), 0, "15/03/2024"},
		{"iso datetime", spreadsheet.TextCell("2024-03-15T10:20:00Z"), 0, "15/03/2024"},
		{"english long date", spreadsheet.TextCell("Mar 15, 2024"), 0, "15/03/2024"},
		{"garbage passes through", spreadsheet.TextCell("  pendiente "), 0, "pendiente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.cell, tt.year))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		cell spreadsheet.Cell
		want string
	}{
		{"thousands separator", spreadsheet.TextCell("1.234"), "1234"},
		{"thousands and decimals", spreadsheet.TextCell("1.234,56"), "1234.56"},
		{"currency symbol", spreadsheet.TextCell("$ 25.990"), "25990"},
		{"number cell", spreadsheet.NumberCell(5990.5), "5990.5"},
		{"blank", spreadsheet.TextCell(""), "0"},
		{"garbage", spreadsheet.TextCell("n/a"), "0"},
		{"zero", spreadsheet.TextCell("0"), "0"},
		{"negative text", spreadsheet.TextCell("-1.000"), "0"},
		{"negative number", spreadsheet.NumberCell(-10), "0"},
		{"double minus", spreadsheet.TextCell("--5"), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			got := ParseAmount(tt.cell)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "UBER TRIP HELP.UBER.COM", NormalizeDescription("  Uber   trip\thelp.uber.com "))
	assert.Equal(t, "", NormalizeDescription("   "))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "descripcion", NormalizeHeader(" Descripción "))
	assert.Equal(t, "depositos y otros abonos", NormalizeHeader("DEPÓSITOS Y OTROS ABONOS"))
	assert.Equal(t, "fecha", NormalizeHeader("FECHA"))
}
