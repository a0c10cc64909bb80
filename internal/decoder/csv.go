package decoder

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// decodeCSV reads all records from a comma-separated payload. Records are
// allowed to have varying field counts; the mapper treats short rows as
// having absent cells.
func decodeCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
