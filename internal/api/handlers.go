package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lpradovera/llmsherpa/internal/chunker"
)

type sectionInfo struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Page  int    `json:"page"`
}

// handleParse accepts a document upload and returns the structural summary
// of its reconstructed tree.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	doc, err := s.reader.Parse(r.Context(), data, filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sections := doc.Sections()
	infos := make([]sectionInfo, 0, len(sections))
	for _, sec := range sections {
		infos = append(infos, sectionInfo{
			Title: sec.Title,
			Level: sec.Level,
			Page:  sec.PageIdx,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":   filename,
		"sections":   infos,
		"paragraphs": len(doc.Paragraphs()),
		"tables":     len(doc.Tables()),
		"chunks":     len(doc.Chunks()),
	})
}

// handleRender accepts a document upload and returns the whole document
// rendered as text or HTML.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "html" {
		jsonError(w, fmt.Sprintf("unsupported format: %s", format), http.StatusBadRequest)
		return
	}

	doc, err := s.reader.Parse(r.Context(), data, filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	content := doc.ToText()
	if format == "html" {
		content = doc.ToHTML()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"format":   format,
		"content":  content,
	})
}

type chunkInfo struct {
	Index      int      `json:"index"`
	Text       string   `json:"text"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
	Context    string   `json:"context,omitempty"`
	PageStart  int      `json:"page_start"`
	PageEnd    int      `json:"page_end"`
}

// handleChunks accepts a document upload and returns retrieval-sized chunks
// with their section context.
func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	cfg := chunker.Config{
		ChunkSize:    s.cfg.DefaultChunkSize,
		ChunkOverlap: s.cfg.DefaultChunkOverlap,
	}
	if v := r.FormValue("chunk_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
		}
	}
	if v := r.FormValue("overlap"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkOverlap = n
		}
	}

	doc, err := s.reader.Parse(r.Context(), data, filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	chunks := chunker.ChunkDocument(doc, cfg)
	infos := make([]chunkInfo, 0, len(chunks))
	for _, c := range chunks {
		infos = append(infos, chunkInfo{
			Index:      c.Index,
			Text:       c.Text,
			Breadcrumb: c.Breadcrumb,
			Context:    strings.Join(c.Breadcrumb, " > "),
			PageStart:  c.PageStart,
			PageEnd:    c.PageEnd,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": filename,
		"chunks":   infos,
	})
}

// readUpload pulls the multipart file field out of the request, enforcing
// the upload size limit. On failure it writes the error response itself.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}

	return data, filename, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
