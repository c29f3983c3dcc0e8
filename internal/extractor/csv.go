package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lpradovera/llmsherpa/internal/doctree"
)

// CSVExtractor handles CSV files. The whole file becomes a single table
// block: the first record is the header row, the rest are data rows.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(r io.Reader, filename string) ([]doctree.BlockRecord, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]doctree.RowRecord, 0, len(records))
	rows = append(rows, csvRow(records[0], doctree.RowTypeHeader))
	for _, rec := range records[1:] {
		rows = append(rows, csvRow(rec, ""))
	}

	return []doctree.BlockRecord{{
		Tag:       doctree.TagTable,
		Name:      strings.TrimSuffix(filename, ".csv"),
		TableRows: rows,
	}}, nil
}

func csvRow(fields []string, rowType string) doctree.RowRecord {
	cells := make([]doctree.CellRecord, 0, len(fields))
	for _, f := range fields {
		cells = append(cells, doctree.CellRecord{CellValue: doctree.CellValue{Text: f}})
	}
	return doctree.RowRecord{Type: rowType, Cells: cells}
}
