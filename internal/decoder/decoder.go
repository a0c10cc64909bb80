// Package decoder turns an uploaded tabular file into raw rows of cell
// strings. Only single-sheet tabular data is supported: XLSX workbooks read
// from their first sheet, and CSV as a fallback for plain text uploads.
package decoder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Decode picks a format from the uploaded filename and returns the ordered
// rows, each row an ordered slice of raw cell values. Rows may have ragged
// lengths; missing cells are simply absent.
func Decode(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return decodeCSV(data)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return decodeXLSX(data)
	default:
		// Spreadsheet exports frequently arrive without a useful extension;
		// try the workbook reader first, then fall back to CSV.
		rows, err := decodeXLSX(data)
		if err == nil {
			return rows, nil
		}
		rows, csvErr := decodeCSV(data)
		if csvErr != nil {
			return nil, fmt.Errorf("unrecognized file format: %w", err)
		}
		return rows, nil
	}
}
