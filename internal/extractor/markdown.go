package extractor

import (
	"bytes"
	"io"
	"strings"

	"github.com/lpradovera/llmsherpa/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) ([]doctree.BlockRecord, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var records []doctree.BlockRecord
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			// ATX level 1 maps to block level 0 so top headings nest
			// directly under the root.
			records = append(records, headerRecord(node.Level-1, len(records), string(node.Text(src))))
		case *ast.List:
			emitList(node, 0, src, &records)
		default:
			if t := extractText(n, src); t != "" {
				records = append(records, paraRecord(len(records), t))
			}
		}
	}
	return records, nil
}

// emitList flattens a (possibly nested) markdown list into list_item
// records whose level reflects nesting depth.
func emitList(list *ast.List, depth int, src []byte, records *[]doctree.BlockRecord) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var sb strings.Builder
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if t := extractText(c, src); t != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(t)
			}
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			*records = append(*records, listItemRecord(depth, len(*records), t))
		}
		for _, sub := range nested {
			emitList(sub, depth+1, src, records)
		}
	}
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.HasChildren() {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			} else {
				// Recurse for nested inlines.
				buf.WriteString(extractText(c, src))
			}
		}
		return strings.TrimSpace(buf.String())
	}
	// Leaf blocks like code fences carry raw lines only.
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
