package ingestion

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by header cell, preserving file order in
// the surrounding slice. Values stay strings; passport field coercion happens
// at the boundary that consumes the rows.
type Row map[string]string

// ParseExcel reads the first sheet of an .xlsx stream. The first row is the
// header; rows shorter than the header are padded with empty cells.
func ParseExcel(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromCells(rows)
}

func rowsFromCells(cells [][]string) ([]Row, error) {
	if len(cells) == 0 {
		return []Row{}, nil
	}
	header := cells[0]
	if len(header) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	out := make([]Row, 0, len(cells)-1)
	for _, cellRow := range cells[1:] {
		row := make(Row, len(header))
		for i, key := range header {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if i < len(cellRow) {
				row[key] = cellRow[i]
			} else {
				row[key] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}
