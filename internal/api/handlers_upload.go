package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dgallion1/docqa/internal/docqa"
)

// uploadFields are the multipart field names accepted for the document,
// in order of preference.
var uploadFields = []string{"pdf", "file"}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; the extra 1MB covers form overhead.
	limit := s.cfg.MaxUploadBytes + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > limit {
			jsonError(w, docqa.KindFileTooLarge, "file exceeds max upload size")
			return
		}
		jsonError(w, docqa.KindNoFile, "expected a multipart form with a file field: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := formFile(r)
	if err != nil {
		jsonError(w, docqa.KindNoFile, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.Ingest(r.Context(), data, sanitizeFilename(header.Filename))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"success": true,
		"pdf": map[string]any{
			"filename":   res.Filename,
			"pages":      res.Pages,
			"characters": res.TextLength,
		},
		"documentId":  res.DocumentID,
		"filename":    res.Filename,
		"title":       res.Title,
		"pages":       res.Pages,
		"textLength":  res.TextLength,
		"contentHash": res.ContentHash,
		"preview":     res.Preview,
	})
}

func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	for _, field := range uploadFields {
		file, header, err := r.FormFile(field)
		if err == nil {
			return file, header, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, nil, err
		}
	}
	return nil, nil, http.ErrMissingFile
}
