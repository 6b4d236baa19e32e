package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mdtree/internal/doctree"
	"github.com/dgallion1/mdtree/internal/pipeline"
	"github.com/dgallion1/mdtree/internal/render"
	"github.com/dgallion1/mdtree/internal/source"
)

// maxBatchDocuments caps the number of documents in one batch request.
const maxBatchDocuments = 100

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	renderer, ok := rendererFor(w, r)
	if !ok {
		return
	}

	// Extra 64KB for JSON framing and escapes.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxInputBytes*2+64*1024)
	var in pipeline.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := s.orchestrator.Parse(r.Context(), in)
	if err != nil {
		s.parseError(w, err)
		return
	}
	s.writeResult(w, res, renderer)
}

func (s *Server) handleParseFile(w http.ResponseWriter, r *http.Request) {
	renderer, ok := rendererFor(w, r)
	if !ok {
		return
	}

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	res, err := s.orchestrator.ParseFile(r.Context(), filename, r.FormValue("title"), bytes.NewReader(data))
	if err != nil {
		s.log.Warn("parse file failed", "filename", filename, "error", err)
		s.parseError(w, err)
		return
	}
	s.writeResult(w, res, renderer)
}

type batchRequest struct {
	Documents []pipeline.Input `json:"documents"`
}

func (s *Server) handleParseBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}
	if len(req.Documents) > maxBatchDocuments {
		jsonError(w, fmt.Sprintf("too many documents (max %d)", maxBatchDocuments), http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, br := range s.orchestrator.ParseBatch(r.Context(), req.Documents) {
		if br.Err != nil {
			results = append(results, map[string]any{
				"index": br.Index,
				"title": req.Documents[br.Index].Title,
				"error": br.Err.Error(),
			})
			continue
		}
		results = append(results, map[string]any{
			"index":  br.Index,
			"doc_id": br.Result.DocID,
			"cached": br.Result.Cached,
			"counts": br.Result.Counts,
			"tree":   br.Result.Tree,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"results": results})
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var tree doctree.DocTree
	if !decodeJSON(w, r, &tree) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"text": doctree.Reconstruct(tree.Children)})
}

// decodeJSON decodes the request body into v, writing a 413 for oversized
// bodies and a 400 for anything else that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		jsonError(w, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
		return false
	}
	jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
	return false
}

// rendererFor resolves the ?format= query parameter, writing a 400 when it is unknown.
func rendererFor(w http.ResponseWriter, r *http.Request) (render.Renderer, bool) {
	format := r.URL.Query().Get("format")
	if format == "" || strings.EqualFold(format, "json") {
		return nil, true
	}
	renderer, err := render.ForFormat(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return renderer, true
}

// writeResult writes the JSON result, or the tree alone when a renderer was requested.
func (s *Server) writeResult(w http.ResponseWriter, res *pipeline.Result, renderer render.Renderer) {
	w.Header().Set(docIDHeader, res.DocID)
	if renderer == nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, res.Tree); err != nil {
		s.log.Error("render failed", "doc_id", res.DocID, "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Write(buf.Bytes())
}

func (s *Server) parseError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, pipeline.ErrInputTooLarge), errors.As(err, &maxErr):
		jsonError(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		jsonError(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	}
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
