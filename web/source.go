package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	ledgererrors "github.com/robinvdvleuten/ledger/errors"
	"github.com/robinvdvleuten/ledger/loader"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type SourceResponse struct {
	Filepath string                   `json:"filepath"`
	Source   string                   `json:"source"`
	Errors   []ledgererrors.ErrorJSON `json:"errors"`
}

// resolveFilepath returns the ledger file a request refers to. An empty
// path means the ledger file; any other path must resolve to it.
func (s *Server) resolveFilepath(path string) (string, error) {
	s.mu.RLock()
	root := s.rootFile
	s.mu.RUnlock()

	if root == "" {
		return "", fmt.Errorf("no ledger file loaded")
	}
	if path == "" {
		return root, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid filepath: %w", err)
	}
	if !sameFile(root, absPath) {
		return "", fmt.Errorf("access denied: filepath is not the ledger file")
	}
	return root, nil
}

// sameFile compares two paths after resolving symlinks, so that a link
// cannot be used to reach another file.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		return false
	}
	return ra == rb
}

// buildResponse creates a SourceResponse from the current ledger state.
// Must be called with s.mu held for reading.
func (s *Server) buildResponse(filename string, source []byte) *SourceResponse {
	return &SourceResponse{
		Filepath: filename,
		Source:   string(source),
		Errors:   ledgererrors.NewJSONFormatter().FormatAllToSlice(s.errs),
	}
}

// handleGetSource returns the ledger source and its validation errors.
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	filename, err := s.resolveFilepath(r.URL.Query().Get("filepath"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	response := s.buildResponse(filename, content)
	s.mu.RUnlock()

	writeJSONResponse(w, response)
}

// handlePutSource replaces the ledger source and returns the validation
// errors of the new content. Content that does not parse is still saved.
func (s *Server) handlePutSource(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Filepath string `json:"filepath"`
		Source   string `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	filename, err := s.resolveFilepath(request.Filepath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := loader.WriteFile(filename, []byte(request.Source)); err != nil {
		s.Logger.Error("failed to write ledger", "file", filename, "err", err)
		http.Error(w, "Failed to write file", http.StatusInternalServerError)
		return
	}

	if err := s.reloadLedger(r.Context()); err != nil {
		s.Logger.Error("failed to reload ledger", "file", filename, "err", err)
		http.Error(w, "Failed to reload ledger", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	response := s.buildResponse(filename, []byte(request.Source))
	s.mu.RUnlock()

	writeJSONResponse(w, response)
}
