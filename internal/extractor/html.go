package extractor

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lpradovera/llmsherpa/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader, filename string) ([]doctree.BlockRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var records []doctree.BlockRecord
	var walk func(n *html.Node, listDepth int)
	walk = func(n *html.Node, listDepth int) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if t := textContent(n); t != "" {
					records = append(records, headerRecord(level-1, len(records), t))
				}
				return
			}

			switch n.Data {
			// Skip non-content elements.
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "blockquote":
				if t := textContent(n); t != "" {
					records = append(records, paraRecord(len(records), t))
				}
				return
			case "ul", "ol":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c, listDepth+1)
				}
				return
			case "li":
				if t := itemText(n); t != "" {
					records = append(records, listItemRecord(listDepth, len(records), t))
				}
				// Only nested lists continue below a list item.
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
						walk(c, listDepth)
					}
				}
				return
			case "table":
				records = append(records, tableRecord(n, len(records)))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, listDepth)
		}
	}

	// Find <body> or use whole document. listDepth starts below zero so the
	// outermost list level is 0.
	body := findBody(doc)
	if body == nil {
		body = doc
	}
	walk(body, -1)

	return records, nil
}

// tableRecord converts a <table> element into a table block record, keeping
// header/data row discrimination and column spans.
func tableRecord(table *html.Node, idx int) doctree.BlockRecord {
	rec := doctree.BlockRecord{Tag: doctree.TagTable, BlockIdx: idx}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			if row, ok := rowRecord(n); ok {
				rec.TableRows = append(rec.TableRows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(table)
	return rec
}

func rowRecord(tr *html.Node) (doctree.RowRecord, bool) {
	var row doctree.RowRecord
	header := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if c.Data == "th" {
			header = true
		}
		row.Cells = append(row.Cells, doctree.CellRecord{
			ColSpan:   colSpan(c),
			CellValue: doctree.CellValue{Text: textContent(c)},
		})
	}
	if header {
		row.Type = doctree.RowTypeHeader
	}
	return row, len(row.Cells) > 0
}

func colSpan(cell *html.Node) int {
	for _, attr := range cell.Attr {
		if strings.EqualFold(attr.Key, "colspan") {
			if n, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

// itemText collects a list item's own text, excluding nested lists.
func itemText(li *html.Node) string {
	var buf strings.Builder
	var extract func(n *html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(li)
	return strings.TrimSpace(buf.String())
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
