package doctree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document owns a built tree and is the public query surface over it.
// The tree is immutable after construction; a Document is safe for
// concurrent reads.
type Document struct {
	root *Block
}

// NewDocument builds the tree from the service's flat block sequence.
func NewDocument(records []BlockRecord) (*Document, error) {
	root, err := BuildTree(records)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// NewDocumentFromJSON decodes a raw block array and builds the tree.
func NewDocumentFromJSON(data []byte) (*Document, error) {
	var records []BlockRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return NewDocument(records)
}

// Root returns the synthetic root block.
func (d *Document) Root() *Block {
	return d.root
}

// walk visits every node reachable without crossing a chunk boundary:
// paragraphs, list items and tables are visited but never descended into,
// even when they own nested children.
func walk(b *Block, visit func(*Block)) {
	for _, child := range b.Children {
		visit(child)
		if !child.IsChunk() {
			walk(child, visit)
		}
	}
}

func (d *Document) collect(match func(*Block) bool) []*Block {
	var out []*Block
	walk(d.root, func(b *Block) {
		if match(b) {
			out = append(out, b)
		}
	})
	return out
}

// Sections returns every header block in document order.
func (d *Document) Sections() []*Block {
	return d.collect(func(b *Block) bool { return b.Tag == TagHeader })
}

// Paragraphs returns every paragraph block in document order.
func (d *Document) Paragraphs() []*Block {
	return d.collect(func(b *Block) bool { return b.Tag == TagPara })
}

// Tables returns every table block in document order.
func (d *Document) Tables() []*Block {
	return d.collect(func(b *Block) bool { return b.Tag == TagTable })
}

// Chunks returns every paragraph, list item and table that is not nested
// inside another chunk. Chunks are the atomic units handed to downstream
// consumers.
func (d *Document) Chunks() []*Block {
	return d.collect((*Block).IsChunk)
}

// ToText renders the top-level sections, each with its full subtree,
// joined by newlines.
func (d *Document) ToText() string {
	var parts []string
	for _, child := range d.root.Children {
		if child.Tag == TagHeader {
			parts = append(parts, child.ToText(RenderOpts{IncludeChildren: true, Recurse: true}))
		}
	}
	return strings.Join(parts, "\n")
}

// ToHTML renders the top-level sections, each with its full subtree,
// wrapped in an <html> element.
func (d *Document) ToHTML() string {
	var sb strings.Builder
	sb.WriteString("<html>")
	for _, child := range d.root.Children {
		if child.Tag == TagHeader {
			sb.WriteString(child.ToHTML(RenderOpts{IncludeChildren: true, Recurse: true}))
		}
	}
	sb.WriteString("</html>")
	return sb.String()
}
