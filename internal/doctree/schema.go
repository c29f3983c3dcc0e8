package doctree

import (
	"bytes"
	"encoding/json"
)

// Row type discriminators used by the extraction service.
const (
	RowTypeHeader = "table_header"
	RowTypeFull   = "full_row"
)

// BlockRecord is one entry of the flat block array produced by the layout
// extraction service. Optional fields default to zero values; rendering
// treats missing sentences as empty content.
type BlockRecord struct {
	Tag       string      `json:"tag"`
	Level     int         `json:"level,omitempty"`
	PageIdx   int         `json:"page_idx,omitempty"`
	BlockIdx  int         `json:"block_idx,omitempty"`
	Top       float64     `json:"top,omitempty"`
	Left      float64     `json:"left,omitempty"`
	BBox      []float64   `json:"bbox,omitempty"`
	Sentences []string    `json:"sentences,omitempty"`
	Name      string      `json:"name,omitempty"`
	TableRows []RowRecord `json:"table_rows,omitempty"`
}

// RowRecord is a table row. Data rows and header rows carry their cells in
// Cells; a full_row record carries the cell fields directly.
type RowRecord struct {
	Type      string       `json:"type,omitempty"`
	Cells     []CellRecord `json:"cells,omitempty"`
	ColSpan   int          `json:"col_span,omitempty"`
	CellValue CellValue    `json:"cell_value,omitempty"`
}

// CellRecord is a single table cell.
type CellRecord struct {
	ColSpan   int       `json:"col_span,omitempty"`
	CellValue CellValue `json:"cell_value,omitempty"`
}

// CellValue is either a literal string or a nested paragraph-shaped record
// when the service marks the cell content as structured.
type CellValue struct {
	Text   string
	Record *BlockRecord
}

func (v *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &v.Text)
	}
	v.Record = &BlockRecord{}
	return json.Unmarshal(data, v.Record)
}

func (v CellValue) MarshalJSON() ([]byte, error) {
	if v.Record != nil {
		return json.Marshal(v.Record)
	}
	return json.Marshal(v.Text)
}
