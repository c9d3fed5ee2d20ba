package spreadsheet

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatXLSX, DetectFormat([]byte("PK\x03\x04rest")))
	assert.Equal(t, FormatXLS, DetectFormat(append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, 0, 0)))
	assert.Equal(t, FormatCSV, DetectFormat([]byte("fecha,descripcion")))
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Decode([]byte("  \n "))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDecode_CSV(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want [][]string
	}{
		{
			name: "comma separated",
			data: []byte("fecha,descripcion,cargo,abono\n15-03-2024,Unimarc,\"5.990\",\n"),
			want: [][]string{{"fecha", "descripcion", "cargo", "abono"}, {"15-03-2024", "Unimarc", "5.990", ""}},
		},
		{
			name: "semicolon with BOM",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("fecha;descripcion;cargo;abono\n15/03/2024;Spotify;5,99;\n")...),
			want: [][]string{{"fecha", "descripcion", "cargo", "abono"}, {"15/03/2024", "Spotify", "5,99", ""}},
		},
		{
			name: "windows-1252",
			data: []byte("fecha;descripci\xf3n\n01/01/2024;Caf\xe9\n"),
			want: [][]string{{"fecha", "descripción"}, {"01/01/2024", "Café"}},
		},
		{
			name: "ragged rows",
			data: []byte("Banco Santander\nfecha,descripcion,cargo\n"),
			want: [][]string{{"Banco Santander"}, {"fecha", "descripcion", "cargo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := Decode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, FormatCSV, wb.Format)

			sheet := wb.First()
			require.NotNil(t, sheet)
			require.Equal(t, len(tt.want), sheet.Len())
			for i, wantRow := range tt.want {
				for j, want := range wantRow {
					assert.Equal(t, want, sheet.Row(i).Cell(j).String(), "row %d col %d", i, j)
				}
			}
		})
	}
}

func TestDecode_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"fecha", "descripcion", "cargo", "abono"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{45000, "Unimarc", 5990.5, ""}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, wb.Format)

	sheet := wb.First()
	require.NotNil(t, sheet)
	require.Equal(t, 2, sheet.Len())

	assert.Equal(t, CellText, sheet.Row(0).Cell(0).Kind)
	assert.Equal(t, "fecha", sheet.Row(0).Cell(0).String())

	date := sheet.Row(1).Cell(0)
	assert.Equal(t, CellNumber, date.Kind)
	assert.Equal(t, 45000.0, date.Number)

	assert.Equal(t, CellText, sheet.Row(1).Cell(1).Kind)
	amount := sheet.Row(1).Cell(2)
	assert.Equal(t, CellNumber, amount.Kind)
	assert.Equal(t, 5990.5, amount.Number)
}

func TestDecode_XLS(t *testing.T) {
	data, err := os.ReadFile("testdata/falabella.xls")
	require.NoError(t, err)

	wb, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FormatXLS, wb.Format)

	sheet := wb.First()
	require.NotNil(t, sheet)
	assert.Equal(t, "Movimientos", sheet.Name)
	require.Equal(t, 3, sheet.Len())

	header := sheet.Row(0)
	assert.Equal(t, CellText, header.Cell(1).Kind)
	assert.Equal(t, "Descripción", header.Cell(1).String())

	charge := sheet.Row(1)
	assert.Equal(t, CellNumber, charge.Cell(0).Kind)
	assert.Equal(t, 45366.0, charge.Cell(0).Number)
	assert.Equal(t, "UNIMARC SANTIAGO", charge.Cell(1).String())
	assert.Equal(t, CellNumber, charge.Cell(2).Kind)
	assert.Equal(t, 1234.56, charge.Cell(2).Number)
	assert.True(t, charge.Cell(3).IsEmpty())

	credit := sheet.Row(2)
	assert.Equal(t, CellText, credit.Cell(0).Kind)
	assert.Equal(t, "15/03/2024", credit.Cell(0).String())
	assert.True(t, credit.Cell(2).IsEmpty())
	assert.Equal(t, CellNumber, credit.Cell(3).Kind)
	assert.Equal(t, 1200000.0, credit.Cell(3).Number)
}

func TestXLSCell(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		kind   CellKind
		number float64
	}{
		{name: "fractional number", value: "1234.56", kind: CellNumber, number: 1234.56},
		{name: "integer number", value: "45366", kind: CellNumber, number: 45366},
		{name: "negative number", value: "-15.5", kind: CellNumber, number: -15.5},
		{name: "thousands grouped label", value: "5.990", kind: CellText},
		{name: "locale label", value: "1.234,56", kind: CellText},
		{name: "date label", value: "15/03/2024", kind: CellText},
		{name: "word that parses as float", value: "Inf", kind: CellText},
		{name: "blank", value: "  ", kind: CellEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := xlsCell(tt.value)
			assert.Equal(t, tt.kind, c.Kind)
			if tt.kind == CellNumber {
				assert.Equal(t, tt.number, c.Number)
			}
		})
	}
}

func TestDecode_CorruptXLS(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, []byte("not really a compound file")...)
	_, err := Decode(data)
	assert.Error(t, err)
}

func TestRowCell_OutOfRange(t *testing.T) {
	var r Row
	assert.True(t, r.Cell(3).IsEmpty())
	assert.True(t, r.Cell(-1).IsEmpty())

	var s *Sheet
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Row(0))
}

func TestFromStrings(t *testing.T) {
	s := FromStrings("x", [][]string{{"a", " "}})
	assert.Equal(t, CellText, s.Rows[0][0].Kind)
	assert.Equal(t, CellEmpty, s.Rows[0][1].Kind)
}
