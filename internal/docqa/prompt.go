package docqa

import (
	"strings"
	"unicode/utf8"
)

const groundingInstructions = `You are an expert multilingual document assistant.
Your rules:
- Answer ONLY from the document content below. If the answer is not in it, say so plainly.
- Unless told otherwise, respond in the same language the user writes in (English or Spanish).
- If the question is unclear, ask for clarification.
- Be concise and use short paragraphs or bullet points where they help.`

// Prompt is the grounded exchange sent to the generator.
type Prompt struct {
	System string
	User   string

	// Truncated reports whether the document text was cut to fit the budget.
	Truncated bool
}

// Truncate returns the first budget characters (runes) of text. It never
// splits a multi-byte character. A non-positive budget yields "".
func Truncate(text string, budget int) (string, bool) {
	if budget <= 0 {
		return "", text != ""
	}
	if len(text) <= budget {
		// Fewer bytes than budget means fewer runes too.
		return text, false
	}
	n := 0
	for i := range text {
		if n == budget {
			return text[:i], true
		}
		n++
	}
	return text, false
}

// LanguageDirective returns the instruction appended to the question, or
// "" when no language was determined.
func LanguageDirective(lang Language) string {
	switch lang {
	case LanguageEnglish:
		return "IMPORTANT: Answer strictly in English."
	case LanguageSpanish:
		return "IMPORTANTE: Responde estrictamente en español."
	}
	return ""
}

// BuildPrompt assembles the grounding instruction with at most budget
// characters of document text, the literal question and the language
// directive, if any.
func BuildPrompt(docTitle, docText, question string, lang Language, budget int) Prompt {
	excerpt, truncated := Truncate(docText, budget)

	var sys strings.Builder
	sys.WriteString(groundingInstructions)
	sys.WriteString("\n\n---\n")
	if docTitle != "" {
		sys.WriteString("Document: ")
		sys.WriteString(docTitle)
		sys.WriteString("\n")
	}
	if truncated {
		sys.WriteString("Note: only the beginning of the document is included below.\n")
	}
	sys.WriteString("---\n")
	sys.WriteString(excerpt)

	user := question
	if d := LanguageDirective(lang); d != "" {
		user += "\n\n" + d
	}

	return Prompt{System: sys.String(), User: user, Truncated: truncated}
}

// EstimateTokens gives a rough token count, about 1.33 tokens per word.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return max(int(float64(words)*1.33), 1)
}

// excerptLength is the number of document characters BuildPrompt embeds.
func excerptLength(docText string, budget int) int {
	excerpt, _ := Truncate(docText, budget)
	return utf8.RuneCountInString(excerpt)
}
