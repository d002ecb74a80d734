package docqa

import (
	"regexp"
	"strings"
)

// Language is the answer language guessed from a question.
type Language string

const (
	LanguageUnknown Language = "unknown"
	LanguageEnglish Language = "english"
	LanguageSpanish Language = "spanish"
)

var (
	// "in Spanish", "al inglés", "en español"... The target language is the
	// one named, not the one the sentence is written in.
	explicitLanguage = regexp.MustCompile(`\b(?:in|into|to|en|al|a)\s+(english|spanish|inglés|ingles|español|espanol|castellano)\b`)

	spanishMarks    = regexp.MustCompile(`[áéíóúñü¿¡]`)
	englishKeywords = regexp.MustCompile(`\b(the|and|what|why|how|who|when|where|which|explain|summarize|summary|is|are|does|list)\b`)
	spanishKeywords = regexp.MustCompile(`\b(que|cual|como|porque|donde|quien|resume|resumen|explica|el|los|las|es|son|del|para)\b`)
)

// DetectLanguage guesses the language the question should be answered in.
// Explicit requests ("in Spanish", "en inglés") win over everything else,
// the last one mentioned if there are several, then Spanish diacritics and inverted punctuation, then keyword matches.
// English keywords are checked before Spanish ones because short English
// questions are the common case.
func DetectLanguage(text string) Language {
	q := strings.ToLower(text)
	if strings.TrimSpace(q) == "" {
		return LanguageUnknown
	}

	if m := explicitLanguage.FindAllStringSubmatch(q, -1); len(m) > 0 {
		switch m[len(m)-1][1] {
		case "english", "inglés", "ingles":
			return LanguageEnglish
		default:
			return LanguageSpanish
		}
	}

	if spanishMarks.MatchString(q) {
		return LanguageSpanish
	}
	if englishKeywords.MatchString(q) {
		return LanguageEnglish
	}
	if spanishKeywords.MatchString(q) {
		return LanguageSpanish
	}
	return LanguageUnknown
}

// ParseLanguage maps a client-supplied language hint. "auto" and unknown
// values mean "detect from the question".
func ParseLanguage(s string) (Language, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return LanguageEnglish, true
	case "spanish", "es":
		return LanguageSpanish, true
	}
	return LanguageUnknown, false
}
