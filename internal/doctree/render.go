package doctree

import (
	"fmt"
	"strings"
)

// RenderOpts controls how much of a subtree a render call covers.
// IncludeChildren renders the node's direct children; Recurse is passed down
// as each child's own IncludeChildren flag.
type RenderOpts struct {
	IncludeChildren bool
	Recurse         bool
}

// ToText renders the block as plain text.
func (b *Block) ToText(opts RenderOpts) string {
	var sb strings.Builder
	switch b.Tag {
	case TagHeader:
		sb.WriteString(b.Title)
	case TagTable:
		sb.WriteString(b.Table.toText())
	default:
		sb.WriteString(strings.Join(b.Sentences, "\n"))
	}
	if opts.IncludeChildren {
		child := RenderOpts{IncludeChildren: opts.Recurse, Recurse: opts.Recurse}
		for _, c := range b.Children {
			sb.WriteString("\n")
			sb.WriteString(c.ToText(child))
		}
	}
	return sb.String()
}

// ToHTML renders the block as an HTML fragment.
func (b *Block) ToHTML(opts RenderOpts) string {
	child := RenderOpts{IncludeChildren: opts.Recurse, Recurse: opts.Recurse}
	var sb strings.Builder
	switch b.Tag {
	case TagHeader:
		fmt.Fprintf(&sb, "<h%d>%s</h%d>", b.Level+1, b.Title, b.Level+1)
		if opts.IncludeChildren {
			for _, c := range b.Children {
				sb.WriteString(c.ToHTML(child))
			}
		}
	case TagPara, TagListItem:
		openTag, closeTag := "<p>", "</p>"
		if b.Tag == TagListItem {
			openTag, closeTag = "<li>", "</li>"
		}
		sb.WriteString(openTag)
		sb.WriteString(strings.Join(b.Sentences, "\n"))
		if opts.IncludeChildren && len(b.Children) > 0 {
			sb.WriteString("<ul>")
			for _, c := range b.Children {
				sb.WriteString(c.ToHTML(child))
			}
			sb.WriteString("</ul>")
		}
		sb.WriteString(closeTag)
	case TagTable:
		sb.WriteString(b.Table.toHTML())
	default:
		for _, c := range b.Children {
			sb.WriteString(c.ToHTML(child))
		}
	}
	return sb.String()
}

// ContextText renders the block prefixed, when requested, with the titles
// and texts of its ancestor chain. Chunk-tagged blocks render with their
// full subtree; anything else contributes its title only.
func (b *Block) ContextText(includeSectionInfo bool) string {
	var sb strings.Builder
	if includeSectionInfo {
		sb.WriteString(b.parentText())
		sb.WriteString("\n")
	}
	if b.IsChunk() {
		sb.WriteString(b.ToText(RenderOpts{IncludeChildren: true, Recurse: true}))
	} else {
		sb.WriteString(b.Title)
	}
	return sb.String()
}

// parentText concatenates ancestor section titles joined by " > ", followed
// by ancestor paragraph/list texts, each on its own line.
func (b *Block) parentText() string {
	var headers, paras []string
	for _, p := range b.ParentChain() {
		switch p.Tag {
		case TagHeader:
			headers = append(headers, p.ToText(RenderOpts{}))
		case TagPara, TagListItem:
			paras = append(paras, p.ToText(RenderOpts{}))
		}
	}
	text := strings.Join(headers, " > ")
	if len(paras) > 0 {
		if text != "" {
			text += "\n"
		}
		text += strings.Join(paras, "\n")
	}
	return text
}

func (t *Table) toText() string {
	var lines []string
	for _, h := range t.Headers {
		lines = append(lines, h.toTextLines()...)
	}
	for _, r := range t.Rows {
		lines = append(lines, r.toTextLines()...)
	}
	return strings.Join(lines, "\n")
}

func (t *Table) toHTML() string {
	var sb strings.Builder
	sb.WriteString("<table>")
	for _, h := range t.Headers {
		sb.WriteString(h.toHTML())
	}
	for _, r := range t.Rows {
		sb.WriteString(r.toHTML())
	}
	sb.WriteString("</table>")
	return sb.String()
}

// toTextLines renders the row's cells joined by " | "; a header row adds a
// markdown separator line beneath its cells.
func (r *TableRow) toTextLines() []string {
	cells := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		cells[i] = c.toText()
	}
	lines := []string{strings.Join(cells, " | ")}
	if r.Header {
		seps := make([]string, len(r.Cells))
		for i := range seps {
			seps[i] = "---"
		}
		lines = append(lines, strings.Join(seps, " | "))
	}
	return lines
}

func (r *TableRow) toHTML() string {
	tag := "td"
	if r.Header {
		tag = "th"
	}
	var sb strings.Builder
	sb.WriteString("<tr>")
	for _, c := range r.Cells {
		sb.WriteString(c.toHTML(tag))
	}
	sb.WriteString("</tr>")
	return sb.String()
}

func (c *TableCell) toText() string {
	if c.Para != nil {
		return c.Para.ToText(RenderOpts{})
	}
	return c.Value
}

func (c *TableCell) toHTML(tag string) string {
	value := c.Value
	if c.Para != nil {
		value = c.Para.ToHTML(RenderOpts{})
	}
	// colspan is only meaningful when the cell actually spans columns.
	if c.ColSpan > 1 {
		return fmt.Sprintf("<%s colspan=\"%d\">%s</%s>", tag, c.ColSpan, value, tag)
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, value, tag)
}
