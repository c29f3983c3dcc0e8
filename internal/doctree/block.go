package doctree

import "strings"

// Block tags as reported by the layout extraction service.
const (
	TagRoot     = "root"
	TagPara     = "para"
	TagHeader   = "header"
	TagListItem = "list_item"
	TagTable    = "table"
)

// RootLevel sorts below every real header level, so the synthetic root
// never gets popped off the header stack.
const RootLevel = -1

// Block is a node in the reconstructed document tree. The layout service
// emits a flat sequence of blocks; BuildTree links them into a tree where
// sections own their subsections, paragraphs, tables and lists.
type Block struct {
	Tag   string
	Level int

	// Positional metadata, carried through from the service unchanged.
	PageIdx  int
	BlockIdx int
	Top      float64
	Left     float64
	BBox     []float64

	Sentences []string
	Title     string // header blocks only, derived from Sentences
	Table     *Table // table blocks only

	Children []*Block
	Parent   *Block
}

// NewRoot returns the synthetic top-level container.
func NewRoot() *Block {
	return &Block{Tag: TagRoot, Level: RootLevel}
}

func newBlock(rec *BlockRecord) *Block {
	b := &Block{
		Tag:       rec.Tag,
		Level:     rec.Level,
		PageIdx:   rec.PageIdx,
		BlockIdx:  rec.BlockIdx,
		Top:       rec.Top,
		Left:      rec.Left,
		BBox:      rec.BBox,
		Sentences: rec.Sentences,
	}
	if b.Tag == TagHeader {
		b.Title = strings.Join(b.Sentences, "\n")
	}
	return b
}

// AddChild appends child to b's children and sets its parent pointer.
func (b *Block) AddChild(child *Block) {
	child.Parent = b
	b.Children = append(b.Children, child)
}

// ParentChain returns b's ancestors ordered outermost first. The synthetic
// root is excluded.
func (b *Block) ParentChain() []*Block {
	var chain []*Block
	for p := b.Parent; p != nil && p.Tag != TagRoot; p = p.Parent {
		chain = append(chain, p)
	}
	// Collected innermost-first; reverse in place.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// IsChunk reports whether b is treated as an atomic unit by the query
// layer: a paragraph, list item or table.
func (b *Block) IsChunk() bool {
	switch b.Tag {
	case TagPara, TagListItem, TagTable:
		return true
	}
	return false
}
