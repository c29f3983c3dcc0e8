package doctree

import (
	"strings"
	"testing"
)

func rec(tag string, level int, sentences ...string) BlockRecord {
	return BlockRecord{Tag: tag, Level: level, Sentences: sentences}
}

func TestBuildTreeFourTopLevelSections(t *testing.T) {
	records := []BlockRecord{
		rec(TagHeader, 0, "One"),
		rec(TagPara, 0, "one body"),
		rec(TagHeader, 0, "Two"),
		rec(TagHeader, 0, "Three"),
		rec(TagHeader, 0, "Four"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(root.Children) != 4 {
		t.Fatalf("expected 4 top-level sections, got %d", len(root.Children))
	}
	for i, want := range []string{"One", "Two", "Three", "Four"} {
		if got := root.Children[i].Title; got != want {
			t.Errorf("section %d: expected title %q, got %q", i, want, got)
		}
	}

	// A childless section's text is exactly its sentence text.
	four := root.Children[3]
	if len(four.Children) != 0 {
		t.Fatalf("expected no children under section Four, got %d", len(four.Children))
	}
	if got := four.ToText(RenderOpts{IncludeChildren: true, Recurse: true}); got != "Four" {
		t.Errorf("expected text %q, got %q", "Four", got)
	}
}

func TestBuildTreeHeaderNesting(t *testing.T) {
	records := []BlockRecord{
		rec(TagHeader, 0, "A"),
		rec(TagHeader, 1, "A.1"),
		rec(TagHeader, 2, "A.1.a"),
		rec(TagHeader, 1, "A.2"),
		rec(TagHeader, 0, "B"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(root.Children))
	}
	a := root.Children[0]
	if len(a.Children) != 2 {
		t.Fatalf("expected 2 children under A, got %d", len(a.Children))
	}
	if a.Children[0].Title != "A.1" || a.Children[1].Title != "A.2" {
		t.Errorf("unexpected children under A: %q, %q", a.Children[0].Title, a.Children[1].Title)
	}
	a1 := a.Children[0]
	if len(a1.Children) != 1 || a1.Children[0].Title != "A.1.a" {
		t.Fatalf("expected A.1.a under A.1, got %+v", a1.Children)
	}
	if root.Children[1].Title != "B" {
		t.Errorf("expected B at top level, got %q", root.Children[1].Title)
	}
}

func TestBuildTreeHeaderLevelsNeverDecreaseAlongPath(t *testing.T) {
	// A shallower header displaces equal-or-deeper headers on the stack even
	// when the document opens with a deep level.
	records := []BlockRecord{
		rec(TagHeader, 2, "Deep first"),
		rec(TagHeader, 0, "Shallow second"),
		rec(TagHeader, 2, "Deep again"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(root.Children))
	}
	shallow := root.Children[1]
	if shallow.Title != "Shallow second" {
		t.Fatalf("expected shallow header at top level, got %q", shallow.Title)
	}
	if len(shallow.Children) != 1 || shallow.Children[0].Title != "Deep again" {
		t.Errorf("expected Deep again nested under shallow header, got %+v", shallow.Children)
	}
}

func TestBuildTreeParagraphAnchorsList(t *testing.T) {
	records := []BlockRecord{
		rec(TagHeader, 0, "Section"),
		rec(TagPara, 0, "The following items:"),
		rec(TagListItem, 0, "first"),
		rec(TagListItem, 1, "first.a"),
		rec(TagListItem, 1, "first.b"),
		rec(TagListItem, 0, "second"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	section := root.Children[0]
	if len(section.Children) != 1 {
		t.Fatalf("expected only the anchor paragraph under the section, got %d children", len(section.Children))
	}
	para := section.Children[0]
	if para.Tag != TagPara {
		t.Fatalf("expected para anchor, got %q", para.Tag)
	}
	if len(para.Children) != 2 {
		t.Fatalf("expected 2 top-level list items under anchor, got %d", len(para.Children))
	}
	first := para.Children[0]
	if got := first.ToText(RenderOpts{}); got != "first" {
		t.Errorf("expected first item, got %q", got)
	}
	if len(first.Children) != 2 {
		t.Fatalf("expected 2 nested items under first, got %d", len(first.Children))
	}
	for _, child := range first.Children {
		if child.Level <= first.Level {
			t.Errorf("nested item level %d not deeper than parent level %d", child.Level, first.Level)
		}
	}
	second := para.Children[1]
	if got := second.ToText(RenderOpts{}); got != "second" {
		t.Errorf("expected second item as sibling of first, got %q", got)
	}
}

func TestBuildTreeListReturnsToAnchor(t *testing.T) {
	// Descending two levels and returning to the top of the list must
	// re-anchor at the paragraph, not under a closed item.
	records := []BlockRecord{
		rec(TagPara, 0, "Items:"),
		rec(TagListItem, 0, "a"),
		rec(TagListItem, 1, "a.1"),
		rec(TagListItem, 2, "a.1.i"),
		rec(TagListItem, 0, "b"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	para := root.Children[0]
	if len(para.Children) != 2 {
		t.Fatalf("expected items a and b under the anchor, got %d children", len(para.Children))
	}
	b := para.Children[1]
	if got := b.ToText(RenderOpts{}); got != "b" {
		t.Errorf("expected item b re-anchored at paragraph, got %q", got)
	}
	a1 := para.Children[0].Children[0]
	if len(a1.Children) != 1 || a1.Children[0].ToText(RenderOpts{}) != "a.1.i" {
		t.Errorf("expected a.1.i under a.1, got %+v", a1.Children)
	}
}

func TestBuildTreeListWithoutAnchorAttachesToSection(t *testing.T) {
	records := []BlockRecord{
		rec(TagHeader, 0, "Section"),
		rec(TagListItem, 0, "loose item"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	section := root.Children[0]
	if len(section.Children) != 1 || section.Children[0].Tag != TagListItem {
		t.Fatalf("expected list item directly under section, got %+v", section.Children)
	}
}

func TestBuildTreeListStackResetsOnOtherBlocks(t *testing.T) {
	records := []BlockRecord{
		rec(TagPara, 0, "Items:"),
		rec(TagListItem, 0, "first"),
		rec(TagPara, 0, "Interlude."),
		rec(TagListItem, 1, "orphan"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The interlude cleared the list stack; its level differs from the
	// orphan's, so the orphan attaches to the current section parent (root).
	if len(root.Children) != 3 {
		t.Fatalf("expected anchor, interlude and orphan at top level, got %d", len(root.Children))
	}
	if root.Children[2].Tag != TagListItem {
		t.Errorf("expected orphan list item at top level, got %q", root.Children[2].Tag)
	}
}

func TestBuildTreeUnsupportedTag(t *testing.T) {
	records := []BlockRecord{
		rec(TagPara, 0, "fine"),
		{Tag: "figure"},
	}
	root, err := BuildTree(records)
	if err == nil {
		t.Fatal("expected error for unsupported tag")
	}
	if root != nil {
		t.Error("expected no partial tree on failure")
	}
	if !strings.Contains(err.Error(), "unsupported block type") || !strings.Contains(err.Error(), "figure") {
		t.Errorf("error should identify the offending tag, got %q", err)
	}
}

func TestBuildTreeMissingOptionalFields(t *testing.T) {
	records := []BlockRecord{
		{Tag: TagHeader},
		{Tag: TagPara},
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	section := root.Children[0]
	if section.Title != "" {
		t.Errorf("expected empty title for sentence-less header, got %q", section.Title)
	}
	if section.Level != 0 {
		t.Errorf("expected default level 0, got %d", section.Level)
	}
	para := section.Children[0]
	if got := para.ToText(RenderOpts{}); got != "" {
		t.Errorf("expected empty text for sentence-less paragraph, got %q", got)
	}
}

func TestBuildTreeTableRows(t *testing.T) {
	records := []BlockRecord{
		{
			Tag:  TagTable,
			Name: "metrics",
			TableRows: []RowRecord{
				{Type: RowTypeHeader, Cells: []CellRecord{
					{CellValue: CellValue{Text: "Name"}},
					{CellValue: CellValue{Text: "Value"}},
				}},
				{Cells: []CellRecord{
					{CellValue: CellValue{Text: "latency"}},
					{ColSpan: 2, CellValue: CellValue{Text: "12ms"}},
				}},
				{Type: RowTypeFull, ColSpan: 2, CellValue: CellValue{Text: "spanning note"}},
				{Cells: []CellRecord{
					{CellValue: CellValue{Record: &BlockRecord{Tag: TagPara, Sentences: []string{"structured"}}}},
				}},
			},
		},
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table := root.Children[0].Table
	if table == nil {
		t.Fatal("expected table payload on table block")
	}
	if table.Name != "metrics" {
		t.Errorf("expected table name carried through, got %q", table.Name)
	}
	if len(table.Headers) != 1 || len(table.Rows) != 3 {
		t.Fatalf("expected 1 header row and 3 body rows, got %d/%d", len(table.Headers), len(table.Rows))
	}
	if !table.Headers[0].Header {
		t.Error("header row not marked as header")
	}
	full := table.Rows[1]
	if len(full.Cells) != 1 || full.Cells[0].Value != "spanning note" || full.Cells[0].ColSpan != 2 {
		t.Errorf("full_row should produce a single cell from the row record, got %+v", full.Cells)
	}
	structured := table.Rows[2].Cells[0]
	if structured.Para == nil {
		t.Fatal("expected nested paragraph for structured cell value")
	}
	if got := structured.Para.ToText(RenderOpts{}); got != "structured" {
		t.Errorf("unexpected structured cell text %q", got)
	}
}

func TestParentChain(t *testing.T) {
	records := []BlockRecord{
		rec(TagHeader, 0, "Top"),
		rec(TagHeader, 1, "Sub"),
		rec(TagPara, 0, "leaf"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leaf := root.Children[0].Children[0].Children[0]
	chain := leaf.ParentChain()
	if len(chain) != 2 {
		t.Fatalf("expected chain of 2 (root excluded), got %d", len(chain))
	}
	if chain[0].Title != "Top" || chain[1].Title != "Sub" {
		t.Errorf("expected outermost-first chain, got %q then %q", chain[0].Title, chain[1].Title)
	}
	if root.ParentChain() != nil {
		t.Error("root should have an empty parent chain")
	}
}

func TestBuildTreeEveryNodeHasOneParent(t *testing.T) {
	records := []BlockRecord{
		rec(TagHeader, 0, "A"),
		rec(TagPara, 0, "p1"),
		rec(TagListItem, 0, "l1"),
		rec(TagHeader, 1, "A.1"),
		rec(TagPara, 0, "p2"),
	}
	root, err := BuildTree(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var check func(b *Block)
	var count int
	check = func(b *Block) {
		for _, c := range b.Children {
			count++
			if c.Parent != b {
				t.Errorf("child %q has wrong parent", c.Tag)
			}
			check(c)
		}
	}
	check(root)
	if count != len(records) {
		t.Errorf("expected %d nodes in tree, got %d", len(records), count)
	}
}
