// Package session holds the single process-wide document snapshot and the
// most recent answer produced against it.
package session

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Document is an immutable snapshot of the currently loaded document.
// Callers must not mutate a Document obtained from the Store.
type Document struct {
	ID          string
	Filename    string
	Title       string
	PageCount   int
	Text        string
	ContentHash string
	LoadedAt    time.Time
}

// NewDocument stamps a fresh version ID and load time.
func NewDocument(filename string, pageCount int, text, contentHash string) *Document {
	return &Document{
		ID:          uuid.NewString(),
		Filename:    filename,
		PageCount:   pageCount,
		Text:        text,
		ContentHash: contentHash,
		LoadedAt:    time.Now(),
	}
}

// TextLength is the length of Text in characters (runes).
func (d *Document) TextLength() int {
	return utf8.RuneCountInString(d.Text)
}

// Answer is the most recent successful answer.
type Answer struct {
	Text       string
	Question   string
	DocumentID string
	CreatedAt  time.Time
}

// Store is a single-slot document cache with last-write-wins semantics.
// Replace swaps the whole snapshot at once, so a reader either sees the
// previous document or the new one, never a mix. A request that grabbed a
// snapshot keeps answering against it even if Replace runs concurrently.
type Store struct {
	mu         sync.RWMutex
	doc        *Document
	lastAnswer *Answer
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs doc as the current document and returns the one it superseded, if any.
func (s *Store) Replace(doc *Document) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.doc
	s.doc = doc
	return prev
}

// Current returns the current document snapshot.
func (s *Store) Current() (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.doc != nil
}

// SetLastAnswer records a as the most recent answer.
func (s *Store) SetLastAnswer(a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAnswer = &a
}

// LastAnswer returns the most recent answer, if one was recorded.
func (s *Store) LastAnswer() (Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastAnswer == nil {
		return Answer{}, false
	}
	return *s.lastAnswer, true
}
