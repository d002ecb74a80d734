package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docqa/internal/docqa"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// writeError reports a classified failure. Unclassified errors become
// INTERNAL_ERROR and their text is not echoed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := docqa.KindOf(err)
	msg := "internal error"

	var e *docqa.Error
	if errors.As(err, &e) {
		msg = e.Message
	} else {
		s.log.Error("unhandled error", "path", r.URL.Path, "error", err)
	}

	body := map[string]any{
		"ok":      false,
		"success": false,
		"error":   kind,
		"message": msg,
	}
	if e != nil && len(e.Details) > 0 {
		body["details"] = e.Details
	}
	writeJSON(w, kind.HTTPStatus(), body)
}

func jsonError(w http.ResponseWriter, kind docqa.Kind, msg string) {
	writeJSON(w, kind.HTTPStatus(), map[string]any{
		"ok":      false,
		"success": false,
		"error":   kind,
		"message": msg,
	})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
