package api

import (
	"net/http"
	"time"

	"github.com/dgallion1/docqa/internal/docqa"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"ok":             true,
		"status":         "ok",
		"documentLoaded": false,
	}
	if doc, ok := s.svc.Document(); ok {
		body["documentLoaded"] = true
		body["document"] = map[string]any{
			"id":          doc.ID,
			"filename":    doc.Filename,
			"title":       doc.Title,
			"pages":       doc.PageCount,
			"characters":  doc.TextLength(),
			"contentHash": doc.ContentHash,
			"loadedAt":    doc.LoadedAt.UTC().Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, docqa.KindProviderUnavailable, "llm stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model": s.svc.Model(),
		"stats": s.stats.Snapshot(),
	})
}
