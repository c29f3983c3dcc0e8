package extractor

import (
	"bufio"
	"io"
	"strings"

	"github.com/lpradovera/llmsherpa/internal/doctree"
)

// TextExtractor handles plain text files.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) ([]doctree.BlockRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []doctree.BlockRecord
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			records = append(records, paraRecord(len(records), current.String()))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
