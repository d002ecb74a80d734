package docqa

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	got, cut := Truncate("hello world", 5)
	assert.Equal(t, "hello", got)
	assert.True(t, cut)

	got, cut = Truncate("hello", 5)
	assert.Equal(t, "hello", got)
	assert.False(t, cut)

	got, cut = Truncate("short", 100)
	assert.Equal(t, "short", got)
	assert.False(t, cut)

	got, cut = Truncate("anything", 0)
	assert.Equal(t, "", got)
	assert.True(t, cut)

	got, cut = Truncate("", 0)
	assert.Equal(t, "", got)
	assert.False(t, cut)
}

func TestTruncate_CountsRunesNotBytes(t *testing.T) {
	text := "ñandú ñandú"
	got, cut := Truncate(text, 5)
	assert.Equal(t, "ñandú", got)
	assert.True(t, cut)
	assert.True(t, utf8.ValidString(got))

	// Exactly budget runes but more bytes than budget is not truncated.
	got, cut = Truncate("ñññ", 3)
	assert.Equal(t, "ñññ", got)
	assert.False(t, cut)
}

func TestTruncate_IsDeterministicPrefix(t *testing.T) {
	text := strings.Repeat("abcdefghij", 1000)
	for _, budget := range []int{1, 10, 4000, 9999} {
		a, _ := Truncate(text, budget)
		b, _ := Truncate(text, budget)
		assert.Equal(t, a, b)
		assert.True(t, strings.HasPrefix(text, a))
		assert.Equal(t, budget, utf8.RuneCountInString(a))
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("report.pdf", "The quarterly report shows growth.", "What does it show?", LanguageEnglish, 4000)

	assert.Contains(t, p.System, groundingInstructions)
	assert.Contains(t, p.System, "Document: report.pdf")
	assert.True(t, strings.HasSuffix(p.System, "The quarterly report shows growth."))
	assert.NotContains(t, p.System, "only the beginning")
	assert.False(t, p.Truncated)
	assert.Equal(t, "What does it show?\n\nIMPORTANT: Answer strictly in English.", p.User)
}

func TestBuildPrompt_Truncated(t *testing.T) {
	doc := strings.Repeat("a", 30) + strings.Repeat("b", 30)
	p := BuildPrompt("", doc, "q", LanguageUnknown, 30)

	assert.True(t, p.Truncated)
	assert.Contains(t, p.System, "only the beginning")
	assert.NotContains(t, p.System, "b")
	assert.NotContains(t, p.System, "Document:")
	assert.Equal(t, "q", p.User)
}

func TestLanguageDirective(t *testing.T) {
	assert.Empty(t, LanguageDirective(LanguageUnknown))
	assert.Contains(t, LanguageDirective(LanguageSpanish), "español")
	assert.Contains(t, LanguageDirective(LanguageEnglish), "English")
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		kind     Kind
		category Category
		status   int
	}{
		{KindNoFile, CategoryInput, 400},
		{KindUnsupportedFile, CategoryInput, 400},
		{KindFileTooLarge, CategoryInput, 413},
		{KindEmptyQuestion, CategoryInput, 400},
		{KindNoDocumentLoaded, CategoryDocumentState, 400},
		{KindInvalidDocument, CategoryExtraction, 400},
		{KindNoReadableText, CategoryExtraction, 400},
		{KindInvalidResponse, CategoryProvider, 502},
		{KindProviderUnavailable, CategoryProvider, 503},
		{KindInternal, CategoryInternal, 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.category, tc.kind.Category(), tc.kind)
		assert.Equal(t, tc.status, tc.kind.HTTPStatus(), tc.kind)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	err := newError(KindEmptyQuestion, "empty", nil)
	assert.Equal(t, KindEmptyQuestion, KindOf(err))
	assert.Equal(t, "EMPTY_QUESTION: empty", err.Error())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 0, EstimateTokens("   \n"))
	assert.Equal(t, 1, EstimateTokens("word"))
	assert.Equal(t, 13, EstimateTokens(strings.Repeat("w ", 10)))
}
