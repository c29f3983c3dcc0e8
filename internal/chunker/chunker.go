package chunker

import (
	"strings"

	"github.com/lpradovera/llmsherpa/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit on its own.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// Chunk is a retrieval-sized piece of a document with its section trail.
type Chunk struct {
	Text       string
	Index      int
	Breadcrumb []string
	PageStart  int
	PageEnd    int
}

// ChunkDocument walks the document's chunk nodes in reading order and
// produces structure-aware chunks. Consecutive nodes under the same section
// chain coalesce up to the token budget; oversized nodes split on paragraph
// then sentence boundaries.
func ChunkDocument(doc *doctree.Document, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	var chunks []Chunk
	var buf group

	flush := func() {
		if buf.tokens == 0 {
			return
		}
		chunks = append(chunks, buf.emit(cfg, len(chunks))...)
		buf = group{}
	}

	for _, node := range doc.Chunks() {
		text := node.ToText(doctree.RenderOpts{IncludeChildren: true, Recurse: true})
		if strings.TrimSpace(text) == "" {
			continue
		}
		bc := breadcrumb(node)
		tokens := EstimateTokens(text)

		if !buf.accepts(bc, tokens, cfg.ChunkSize) {
			flush()
		}
		buf.add(text, tokens, bc, node.PageIdx)
	}
	flush()

	return chunks
}

// group accumulates consecutive chunk nodes that share a breadcrumb.
type group struct {
	parts  []string
	tokens int
	bc     []string
	pageLo int
	pageHi int
}

func (g *group) accepts(bc []string, tokens, budget int) bool {
	if g.tokens == 0 {
		return true
	}
	if !equalBreadcrumb(g.bc, bc) {
		return false
	}
	return g.tokens+tokens <= budget
}

func (g *group) add(text string, tokens int, bc []string, page int) {
	if g.tokens == 0 {
		g.bc = bc
		g.pageLo = page
		g.pageHi = page
	}
	if page < g.pageLo {
		g.pageLo = page
	}
	if page > g.pageHi {
		g.pageHi = page
	}
	g.parts = append(g.parts, text)
	g.tokens += tokens
}

func (g *group) emit(cfg Config, index int) []Chunk {
	text := strings.Join(g.parts, "\n\n")

	if g.tokens <= cfg.ChunkSize {
		return []Chunk{{
			Text:       text,
			Index:      index,
			Breadcrumb: copyBreadcrumb(g.bc),
			PageStart:  g.pageLo,
			PageEnd:    g.pageHi,
		}}
	}

	var out []Chunk
	for _, part := range splitText(text, cfg.ChunkSize, cfg.ChunkOverlap) {
		if EstimateTokens(part) < cfg.MinChunk {
			continue
		}
		out = append(out, Chunk{
			Text:       part,
			Index:      index,
			Breadcrumb: copyBreadcrumb(g.bc),
			PageStart:  g.pageLo,
			PageEnd:    g.pageHi,
		})
		index++
	}
	return out
}

// breadcrumb collects the ancestor section titles for a chunk node.
func breadcrumb(node *doctree.Block) []string {
	var bc []string
	for _, p := range node.ParentChain() {
		if p.Tag == doctree.TagHeader && p.Title != "" {
			bc = append(bc, p.Title)
		}
	}
	return bc
}

func equalBreadcrumb(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	// Split by paragraphs first.
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// If a single paragraph exceeds the target, split it further.
		if paraTokens > targetTokens {
			// Flush current buffer.
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			// Split the large paragraph by sentences.
			subParts := splitBySentences(para, targetTokens, overlapTokens)
			result = append(result, subParts...)
			continue
		}

		// Would adding this paragraph exceed the target?
		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			// Start next chunk with overlap from end of current.
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
