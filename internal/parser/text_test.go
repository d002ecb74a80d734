package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParser_BasicParagraphs(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	ext, err := p.Parse(strings.NewReader(input), "notes.txt")
	require.NoError(t, err)

	assert.Equal(t, "notes", ext.Title)
	require.Len(t, ext.Pages, 1)
	assert.Equal(t, 1, ext.PageCount())
	assert.Equal(t,
		"First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph.",
		ext.Text())
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	ext, err := p.Parse(strings.NewReader(""), "empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "empty", ext.Title)
	assert.Empty(t, ext.Pages)
	assert.Empty(t, ext.Text())
}

func TestTextParser_CollapsesBlankRuns(t *testing.T) {
	// Multiple blank or whitespace-only lines collapse into one separator.
	input := "Para one.\n\n   \n\nPara two."
	p := &TextParser{}
	ext, err := p.Parse(strings.NewReader(input), "gaps.txt")
	require.NoError(t, err)
	assert.Equal(t, "Para one.\n\nPara two.", ext.Text())
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "ab\tc\nd", SanitizeText("a\x00b\tc\n\x07d"))
	assert.Equal(t, "", SanitizeText(""))
	assert.Equal(t, "ñandú", SanitizeText("ñandú"))
}
