package spreadsheet

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/extrame/xls"
)

// xlsScanCols bounds the column scan for rows that have cells but no ROW
// record, for which extrame/xls reports a last column of zero.
const xlsScanCols = 32

var (
	// plainDecimal is the shape extrame/xls gives NUMBER and RK cells.
	plainDecimal = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

	// thousandsGrouped matches labels such as "5.990" or "1.250.000" that are
	// typed text in Chilean exports and must not be read as decimals.
	thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
)

// decodeXLS reads a legacy BIFF workbook. extrame/xls only exposes formatted
// strings: NUMBER and RK cells come back as plain decimal text, so those are
// turned back into number cells.
func decodeXLS(data []byte) (wb *Workbook, err error) {
	// extrame/xls panics on some truncated files instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("malformed xls: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("malformed xls: no workbook stream")
	}

	wb = &Workbook{}
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}

		sheet := Sheet{Name: ws.Name}
		for r := 0; r <= int(ws.MaxRow); r++ {
			sheet.Rows = append(sheet.Rows, xlsRow(ws, r))
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

// xlsRow returns nil for rows the sheet does not contain. WorkSheet.Row
// dereferences a missing row, hence the recover.
func xlsRow(ws *xls.WorkSheet, r int) (row Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	xr := ws.Row(r)
	last := xr.LastCol()
	if last == 0 {
		last = xlsScanCols
	}

	row = make(Row, 0, last)
	for c := 0; c < last; c++ {
		row = append(row, xlsCell(xr.Col(c)))
	}
	for len(row) > 0 && row[len(row)-1].IsEmpty() {
		row = row[:len(row)-1]
	}
	return row
}

func xlsCell(value string) Cell {
	if strings.TrimSpace(value) == "" {
		return Cell{}
	}
	if !plainDecimal.MatchString(value) || thousandsGrouped.MatchString(value) {
		return TextCell(value)
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return NumberCell(n)
	}
	return TextCell(value)
}
