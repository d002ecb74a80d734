// Package docqa implements document ingestion and grounded question
// answering against the single loaded document.
package docqa

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/session"
)

// Config bounds what the pipeline sends to and accepts from its collaborators.
type Config struct {
	TruncationBudget int
	PreviewChars     int
	Temperature      float64
	MaxTokens        int
	MaxUploadBytes   int64
	GenerateTimeout  time.Duration
	ExtractTimeout   time.Duration
}

// Extractor pulls plain text out of an uploaded file.
type Extractor interface {
	Extract(data []byte, filename string) (*parser.Extraction, error)
}

// ParserExtractor dispatches to the parser registered for the file extension.
type ParserExtractor struct {
	Options parser.Options
}

func (e ParserExtractor) Extract(data []byte, filename string) (*parser.Extraction, error) {
	p, err := parser.ForFile(filename, e.Options)
	if err != nil {
		return nil, err
	}
	return p.Parse(bytes.NewReader(data), filename)
}

// Service owns the ingestion and answering pipeline.
type Service struct {
	cfg       Config
	store     *session.Store
	extractor Extractor
	generator llm.Generator
	log       *slog.Logger
}

func NewService(cfg Config, store *session.Store, extractor Extractor, generator llm.Generator, log *slog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		store:     store,
		extractor: extractor,
		generator: generator,
		log:       log,
	}
}

// IngestResult describes the document that became current.
type IngestResult struct {
	DocumentID  string
	Filename    string
	Title       string
	Pages       int
	TextLength  int
	ContentHash string
	Preview     string
}

// Ingest extracts the text of an uploaded file and, when it has any,
// installs it as the current document. On any failure the current document
// is left as it was.
func (s *Service) Ingest(ctx context.Context, data []byte, filename string) (IngestResult, error) {
	if len(data) == 0 {
		return IngestResult{}, newError(KindNoFile, "no file provided", nil)
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(data)) > s.cfg.MaxUploadBytes {
		return IngestResult{}, newError(KindFileTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), nil)
	}
	if !parser.IsSupportedExtension(filename) {
		return IngestResult{}, newError(KindUnsupportedFile, fmt.Sprintf("unsupported file type: %q", filename), nil)
	}

	start := time.Now()
	ext, err := s.extract(ctx, data, filename)
	if err != nil {
		s.log.Warn("extraction failed", "filename", filename, "bytes", len(data), "error", err)
		return IngestResult{}, err
	}

	text := ext.Text()
	if strings.TrimSpace(text) == "" {
		s.log.Warn("document has no readable text", "filename", filename, "pages", ext.PageCount())
		return IngestResult{}, newError(KindNoReadableText,
			"no readable text found; the file may be a scanned or image-only document", nil)
	}

	doc := session.NewDocument(filename, ext.PageCount(), text, contentHashHex(data))
	doc.Title = ext.Title
	prev := s.store.Replace(doc)

	attrs := []any{
		"document_id", doc.ID,
		"filename", doc.Filename,
		"pages", doc.PageCount,
		"characters", doc.TextLength(),
		"content_hash", doc.ContentHash,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if prev != nil {
		attrs = append(attrs, "replaced", prev.ID, "same_content", prev.ContentHash == doc.ContentHash)
	}
	s.log.Info("document loaded", attrs...)

	preview, _ := Truncate(text, s.cfg.PreviewChars)
	return IngestResult{
		DocumentID:  doc.ID,
		Filename:    doc.Filename,
		Title:       doc.Title,
		Pages:       doc.PageCount,
		TextLength:  doc.TextLength(),
		ContentHash: doc.ContentHash,
		Preview:     preview,
	}, nil
}

// extract runs the extractor under the extraction timeout. The parsers are
// not context-aware, so on expiry the goroutine is abandoned and finishes
// on its own.
func (s *Service) extract(ctx context.Context, data []byte, filename string) (*parser.Extraction, error) {
	if s.cfg.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ExtractTimeout)
		defer cancel()
	}

	type result struct {
		ext *parser.Extraction
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("extractor panic: %v", rec)}
			}
		}()
		ext, err := s.extractor.Extract(data, filename)
		done <- result{ext: ext, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, newError(KindProviderUnavailable, "text extraction timed out", ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, newError(KindInvalidDocument, "could not read document", r.err)
		}
		if r.ext == nil {
			return nil, newError(KindInvalidDocument, "could not read document", errors.New("no extraction result"))
		}
		return r.ext, nil
	}
}

// AskInput is one question against the current document.
type AskInput struct {
	Question string
	Mode     Mode
	// Language forces the answer language ("english", "spanish"); empty or
	// "auto" detects it from the question.
	Language string
}

// AnswerResult is a successful answer.
type AnswerResult struct {
	Answer     string
	Question   string
	DocumentID string
	Language   Language
	Truncated  bool
	Model      string
}

// Answer asks the generator about the current document. The document
// snapshot is taken once, so a concurrent Ingest cannot change what this
// request is grounded on. Failures are returned immediately; nothing is retried.
func (s *Service) Answer(ctx context.Context, in AskInput) (AnswerResult, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		question = in.Mode.PresetQuestion()
	}
	if question == "" {
		return AnswerResult{}, newError(KindEmptyQuestion, "question must not be empty", nil)
	}
	if !in.Mode.Valid() {
		return AnswerResult{}, newError(KindInvalidRequest, fmt.Sprintf("unknown mode %q", in.Mode), nil)
	}

	doc, ok := s.store.Current()
	if !ok || strings.TrimSpace(doc.Text) == "" {
		return AnswerResult{}, newError(KindNoDocumentLoaded, "upload a document first", nil)
	}

	lang, forced := ParseLanguage(in.Language)
	if !forced {
		lang = DetectLanguage(question)
	}

	prompt := BuildPrompt(documentLabel(doc), doc.Text, question, lang, s.cfg.TruncationBudget)

	genCtx := ctx
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.generator.Generate(genCtx, llm.Request{
		System:      prompt.System,
		Prompt:      prompt.User,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return AnswerResult{}, s.classifyGenerateError(doc, err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		s.log.Error("provider returned empty answer", "document_id", doc.ID, "model", s.generator.Model(), "raw", string(resp.Raw))
		return AnswerResult{}, &Error{Kind: KindInvalidResponse, Message: "provider returned an empty answer", Details: resp.Raw}
	}

	s.store.SetLastAnswer(session.Answer{
		Text:       resp.Text,
		Question:   question,
		DocumentID: doc.ID,
		CreatedAt:  time.Now(),
	})

	s.log.Info("question answered",
		"document_id", doc.ID,
		"mode", string(in.Mode),
		"language", string(lang),
		"excerpt_chars", excerptLength(doc.Text, s.cfg.TruncationBudget),
		"truncated", prompt.Truncated,
		"prompt_tokens_est", EstimateTokens(prompt.System)+EstimateTokens(prompt.User),
		"answer_chars", utf8.RuneCountInString(resp.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	model := resp.Model
	if model == "" {
		model = s.generator.Model()
	}
	return AnswerResult{
		Answer:     resp.Text,
		Question:   question,
		DocumentID: doc.ID,
		Language:   lang,
		Truncated:  prompt.Truncated,
		Model:      model,
	}, nil
}

func (s *Service) classifyGenerateError(doc *session.Document, err error) error {
	var invalid *llm.InvalidResponseError
	var unavailable *llm.UnavailableError
	switch {
	case errors.As(err, &invalid):
		s.log.Error("provider returned invalid response",
			"document_id", doc.ID,
			"model", s.generator.Model(),
			"status", invalid.StatusCode,
			"reason", invalid.Reason,
			"raw", string(invalid.Raw),
		)
		return &Error{Kind: KindInvalidResponse, Message: "the model returned an invalid response", Err: err, Details: invalid.Raw}
	case errors.As(err, &unavailable), errors.Is(err, context.DeadlineExceeded):
		s.log.Error("provider unavailable", "document_id", doc.ID, "model", s.generator.Model(), "error", err)
		return newError(KindProviderUnavailable, "the model provider is unavailable", err)
	default:
		s.log.Error("answer failed", "document_id", doc.ID, "model", s.generator.Model(), "error", err)
		return newError(KindInternal, "unexpected error while answering", err)
	}
}

// Document returns the current document snapshot.
func (s *Service) Document() (*session.Document, bool) {
	return s.store.Current()
}

// LastAnswer returns the most recent successful answer.
func (s *Service) LastAnswer() (session.Answer, bool) {
	return s.store.LastAnswer()
}

// Model names the generation model in use.
func (s *Service) Model() string {
	return s.generator.Model()
}

// documentLabel names the document in the prompt. A title that is more than
// the filename stem is shown alongside the filename.
func documentLabel(doc *session.Document) string {
	stem := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
	if doc.Title == "" || doc.Title == stem {
		return doc.Filename
	}
	return doc.Title + " (" + doc.Filename + ")"
}

// contentHashHex computes SHA-256 of content and returns hex string.
func contentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
