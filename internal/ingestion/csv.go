package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ParseCSV reads a comma-separated stream with a header row into the same
// Row shape as ParseExcel.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsFromCells(records)
}
