package scanner

import "strings"

const snippetMargin = 60

// LineOf maps a character offset in text to a 1-based line number.
func LineOf(text string, off int) int {
	if off > len(text) {
		off = len(text)
	}
	if off < 0 {
		off = 0
	}
	return strings.Count(text[:off], "\n") + 1
}

// SnippetAt slices a bounded context window around the span, with
// embedded newlines rendered as a literal "\n" so the snippet stays a
// single display line.
func SnippetAt(text string, span Span) string {
	s := span.Start - snippetMargin
	if s < 0 {
		s = 0
	}
	e := span.End + snippetMargin
	if e > len(text) {
		e = len(text)
	}
	return strings.ReplaceAll(text[s:e], "\n", "\\n")
}
