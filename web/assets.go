package web

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

var indexTemplate = template.Must(template.ParseFS(static, "static/index.html"))

// handleIndex serves the editor page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := struct {
		Filename string
		Version  string
		ReadOnly bool
	}{s.rootFile, s.Version, s.ReadOnly}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.Logger.Error("failed to render index", "err", err)
	}
}
