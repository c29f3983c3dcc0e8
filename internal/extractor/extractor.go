package extractor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lpradovera/llmsherpa/internal/doctree"
)

// Extractor converts raw document bytes into the flat block sequence the
// tree builder consumes. Extractors never build trees themselves; every
// format flows through the one builder.
type Extractor interface {
	Extract(r io.Reader, filename string) ([]doctree.BlockRecord, error)
}

// SupportedExtensions lists file extensions with a local extractor.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".csv":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension has a local extractor.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Detect picks an extractor by extension, falling back to content sniffing
// when the name carries no usable extension.
func Detect(data []byte, filename string) (Extractor, error) {
	if IsSupportedExtension(filename) {
		return ForFile(filename)
	}

	mtype := mimetype.Detect(data)
	switch {
	case mtype.Is("application/pdf"):
		return &PDFExtractor{}, nil
	case mtype.Is("text/html"):
		return &HTMLExtractor{}, nil
	case mtype.Is("text/markdown"):
		return &MarkdownExtractor{}, nil
	case mtype.Is("text/csv"):
		return &CSVExtractor{}, nil
	case mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return &DOCXExtractor{}, nil
	case strings.HasPrefix(mtype.String(), "text/"):
		return &TextExtractor{}, nil
	}
	return nil, fmt.Errorf("unsupported content type: %s", mtype)
}

func headerRecord(level, idx int, text string) doctree.BlockRecord {
	return doctree.BlockRecord{
		Tag:       doctree.TagHeader,
		Level:     level,
		BlockIdx:  idx,
		Sentences: []string{text},
	}
}

func paraRecord(idx int, text string) doctree.BlockRecord {
	return doctree.BlockRecord{
		Tag:       doctree.TagPara,
		BlockIdx:  idx,
		Sentences: []string{text},
	}
}

func listItemRecord(level, idx int, text string) doctree.BlockRecord {
	return doctree.BlockRecord{
		Tag:       doctree.TagListItem,
		Level:     level,
		BlockIdx:  idx,
		Sentences: []string{text},
	}
}
