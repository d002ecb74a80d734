package parser

import "strings"

// SanitizeText drops NUL bytes and non-printing control characters that some
// PDF extractors emit, keeping newlines, carriage returns and tabs.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return r
		case r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, s)
}

func cleanPages(pages []string) []string {
	out := pages[:0]
	for _, p := range pages {
		p = strings.TrimSpace(SanitizeText(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
