package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
	FormatCSV  = "csv"
)

// ErrEmptyFile is returned for zero-length uploads.
var ErrEmptyFile = errors.New("empty file")

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat sniffs the container format from the leading bytes. Anything
// that is neither an OOXML zip nor an OLE2 compound file is treated as CSV.
func DetectFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, ole2Magic):
		return FormatXLS
	default:
		return FormatCSV
	}
}

// Decode reads an uploaded statement into a Workbook.
func Decode(data []byte) (*Workbook, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	var (
		wb  *Workbook
		err error
	)
	format := DetectFormat(data)
	switch format {
	case FormatXLSX:
		wb, err = decodeXLSX(data)
	case FormatXLS:
		wb, err = decodeXLS(data)
	default:
		wb, err = decodeCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("decode %s: workbook has no sheets", format)
	}

	wb.Format = format
	return wb, nil
}
