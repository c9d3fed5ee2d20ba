package spreadsheet

import (
	"bytes"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads every sheet with raw cell values so that dates stay as
// Excel serials and amounts keep full precision.
func decodeXLSX(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}

		sheet := Sheet{Name: name, Rows: make([]Row, len(raw))}
		for i, r := range raw {
			row := make(Row, len(r))
			for j, v := range r {
				row[j] = xlsxCell(f, name, j+1, i+1, v)
			}
			sheet.Rows[i] = row
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

func xlsxCell(f *excelize.File, sheet string, col, row int, value string) Cell {
	if value == "" {
		return Cell{}
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return TextCell(value)
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return TextCell(value)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return NumberCell(n)
		}
	}
	return TextCell(value)
}
