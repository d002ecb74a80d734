package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/docqa/internal/docqa"
	"github.com/go-playground/validator/v10"
)

// maxAskBodyBytes bounds the JSON body of /api/ask.
const maxAskBodyBytes = 64 << 10

type askRequest struct {
	Question string `json:"question" validate:"max=10000"`
	Mode     string `json:"mode" validate:"omitempty,oneof=chat summary key_insights explain_like_10 action_items"`
	Language string `json:"language" validate:"omitempty,oneof=auto english spanish en es"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxAskBodyBytes))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, docqa.KindInvalidRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		jsonError(w, docqa.KindInvalidRequest, validationMessage(err))
		return
	}

	res, err := s.svc.Answer(r.Context(), docqa.AskInput{
		Question: req.Question,
		Mode:     docqa.Mode(req.Mode),
		Language: req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"success":    true,
		"answer":     res.Answer,
		"documentId": res.DocumentID,
		"language":   res.Language,
		"truncated":  res.Truncated,
		"model":      res.Model,
	})
}

func (s *Server) handleLastAnswer(w http.ResponseWriter, r *http.Request) {
	ans, ok := s.svc.LastAnswer()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      false,
			"success": false,
			"message": "No answer yet.",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"success":    true,
		"answer":     ans.Text,
		"question":   ans.Question,
		"documentId": ans.DocumentID,
		"createdAt":  ans.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
