package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/lpradovera/llmsherpa/internal/doctree"
	"github.com/lpradovera/llmsherpa/internal/ingestor"
)

const markdownSource = `# Guide

Welcome paragraph.

## Setup

Install the binary.
`

func TestReadLocalFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "guide.md")
	if err := os.WriteFile(file, []byte(markdownSource), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r := New(nil, false)
	doc, err := r.Read(context.Background(), file)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	sections := doc.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "Guide" {
		t.Errorf("expected first section Guide, got %q", sections[0].Title)
	}
	if sections[1].Title != "Setup" {
		t.Errorf("expected second section Setup, got %q", sections[1].Title)
	}
}

func TestReadLocalFileMissing(t *testing.T) {
	r := New(nil, false)
	if _, err := r.Read(context.Background(), filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadRemoteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/docs/guide.md" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		w.Write([]byte(markdownSource))
	}))
	defer srv.Close()

	r := New(nil, false)
	doc, err := r.Read(context.Background(), srv.URL+"/docs/guide.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := len(doc.Sections()); got != 2 {
		t.Fatalf("expected 2 sections, got %d", got)
	}
}

func TestReadRemoteURLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := New(nil, false)
	if _, err := r.Read(context.Background(), srv.URL+"/gone.md"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestReadWithIngestorService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/api/parseDocument" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"return_dict":{"result":{"blocks":[
			{"tag":"header","level":0,"block_idx":0,"sentences":["Remote Title"]},
			{"tag":"para","level":1,"block_idx":1,"sentences":["Remote body."]}
		]}}}`))
	}))
	defer srv.Close()

	client := ingestor.NewClient(srv.URL, "")
	r := New(client, false)
	doc, err := r.Parse(context.Background(), []byte("%PDF-1.7 fake"), "report.pdf")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	sections := doc.Sections()
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	opts := doctree.RenderOpts{IncludeChildren: true, Recurse: true}
	if got := sections[0].ToText(opts); got != "Remote Title\nRemote body." {
		t.Errorf("unexpected section text %q", got)
	}
}
