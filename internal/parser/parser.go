package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Parser converts raw document bytes into extracted text.
type Parser interface {
	Parse(r io.Reader, filename string) (*Extraction, error)
}

// Extraction is the plain text pulled out of a document, split by page
// (PDF) or top-level section (everything else).
type Extraction struct {
	Title string
	Pages []string

	// NumPages is the page count reported by the source format, which can
	// exceed len(Pages) when some pages carry no text. Zero means unknown.
	NumPages int
}

// Text joins all pages with a blank line between them.
func (e *Extraction) Text() string {
	return strings.Join(e.Pages, "\n\n")
}

// PageCount reports the number of pages, never less than one for a parsed document.
func (e *Extraction) PageCount() int {
	if e.NumPages > 0 {
		return e.NumPages
	}
	if len(e.Pages) == 0 {
		return 1
	}
	return len(e.Pages)
}

// Options tune parser behavior.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".csv":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func trimExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
