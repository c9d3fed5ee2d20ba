// Package spreadsheet decodes uploaded statement files (.xlsx, .xls, .csv)
// into a uniform grid of typed cells.
package spreadsheet

import (
	"strconv"
	"strings"
)

// CellKind distinguishes cells the source format typed as numbers from text.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a single spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell builds a text cell; blank input yields an empty cell.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n, Text: strconv.FormatFloat(n, 'f', -1, 64)}
}

// String returns the trimmed textual form of the cell.
func (c Cell) String() string {
	return strings.TrimSpace(c.Text)
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || c.String() == ""
}

// Row is one spreadsheet row. Rows may be ragged.
type Row []Cell

// Cell returns the i-th cell, or an empty cell when i is out of range.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// Sheet is a named grid of rows.
type Sheet struct {
	Name string
	Rows []Row
}

// Len returns the number of rows.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Row returns the i-th row, or nil when out of range.
func (s *Sheet) Row(i int) Row {
	if s == nil || i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// Workbook is a decoded file.
type Workbook struct {
	Format string
	Sheets []Sheet
}

// First returns the first sheet, or nil for an empty workbook.
func (w *Workbook) First() *Sheet {
	if w == nil || len(w.Sheets) == 0 {
		return nil
	}
	return &w.Sheets[0]
}

// FromStrings builds a text-only sheet, mostly useful in tests.
func FromStrings(name string, rows [][]string) Sheet {
	out := Sheet{Name: name, Rows: make([]Row, len(rows))}
	for i, r := range rows {
		row := make(Row, len(r))
		for j, v := range r {
			row[j] = TextCell(v)
		}
		out.Rows[i] = row
	}
	return out
}
