package doctree

// Table holds a table block's rows. Header rows and body rows are kept in
// separate ordered lists; rows never appear in the block's generic children.
// Rows and cells are immutable once built from their source records.
type Table struct {
	Name    string
	Headers []*TableRow
	Rows    []*TableRow
}

// TableRow is an ordered list of cells. Header rows render with <th> cells
// in HTML and a markdown-style separator line in text.
type TableRow struct {
	Header bool
	Cells  []*TableCell
}

// TableCell holds a literal string value, or a nested paragraph block when
// the cell content is itself structured.
type TableCell struct {
	ColSpan int
	Value   string
	Para    *Block
}

func newTable(rec *BlockRecord) *Block {
	b := newBlock(rec)
	t := &Table{Name: rec.Name}
	for i := range rec.TableRows {
		row := newTableRow(&rec.TableRows[i])
		if row.Header {
			t.Headers = append(t.Headers, row)
		} else {
			t.Rows = append(t.Rows, row)
		}
	}
	b.Table = t
	return b
}

func newTableRow(rec *RowRecord) *TableRow {
	row := &TableRow{Header: rec.Type == RowTypeHeader}
	if rec.Type == RowTypeFull {
		// A full row carries its single cell's fields directly.
		row.Cells = append(row.Cells, newTableCell(rec.ColSpan, rec.CellValue))
		return row
	}
	for i := range rec.Cells {
		c := &rec.Cells[i]
		row.Cells = append(row.Cells, newTableCell(c.ColSpan, c.CellValue))
	}
	return row
}

func newTableCell(span int, value CellValue) *TableCell {
	if span <= 0 {
		span = 1
	}
	cell := &TableCell{ColSpan: span, Value: value.Text}
	if value.Record != nil {
		cell.Para = newBlock(value.Record)
	}
	return cell
}
