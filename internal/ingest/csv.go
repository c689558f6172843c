package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// parseCSV converts a CSV body into a Table. The first row is the header;
// every cell value stays a string (type coercion is the normalizers' job).
// Short rows are padded with empty strings, long rows are truncated to the
// header width.
func parseCSV(body []byte) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var table Table
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		table = append(table, rec)
	}
	if table == nil {
		table = Table{}
	}
	return table, nil
}
