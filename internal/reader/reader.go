package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/lpradovera/llmsherpa/internal/doctree"
	"github.com/lpradovera/llmsherpa/internal/extractor"
	"github.com/lpradovera/llmsherpa/internal/ingestor"
)

// maxFetchBytes caps how much of a remote source gets read.
const maxFetchBytes = 256 << 20

// Reader resolves a source document, obtains its flat block sequence and
// builds the tree. With an ingestor client the blocks come from the remote
// layout extraction service; without one, from the local extractors.
type Reader struct {
	ingestor          *ingestor.Client
	httpClient        *http.Client
	pdftotextFallback bool
}

func New(ing *ingestor.Client, pdftotextFallback bool) *Reader {
	return &Reader{
		ingestor: ing,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pdftotextFallback: pdftotextFallback,
	}
}

// Read fetches the document behind a local path or http(s) URL and parses
// it into a Document.
func (r *Reader) Read(ctx context.Context, locator string) (*doctree.Document, error) {
	data, filename, err := r.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	return r.Parse(ctx, data, filename)
}

// Fetch resolves a source locator to raw bytes and a filename.
func (r *Reader) Fetch(ctx context.Context, locator string) ([]byte, string, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return r.download(ctx, locator)
	}
	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, "", fmt.Errorf("read source file: %w", err)
	}
	return data, filepath.Base(locator), nil
}

func (r *Reader) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read remote source: %w", err)
	}

	filename := "document"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			filename = base
		}
	}
	return data, filename, nil
}

// Parse converts already-fetched document bytes into a Document.
func (r *Reader) Parse(ctx context.Context, data []byte, filename string) (*doctree.Document, error) {
	records, err := r.blocks(ctx, data, filename)
	if err != nil {
		return nil, err
	}
	return doctree.NewDocument(records)
}

func (r *Reader) blocks(ctx context.Context, data []byte, filename string) ([]doctree.BlockRecord, error) {
	if r.ingestor != nil {
		return r.ingestor.ParseDocument(ctx, data, filename)
	}
	ex, err := extractor.Detect(data, filename)
	if err != nil {
		return nil, err
	}
	if pdfEx, ok := ex.(*extractor.PDFExtractor); ok {
		pdfEx.FallbackPdftotext = r.pdftotextFallback
	}
	return ex.Extract(bytes.NewReader(data), filename)
}
