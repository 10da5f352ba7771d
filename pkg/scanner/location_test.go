package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineOf(t *testing.T) {
	text := "first\nsecond\nthird"

	assert.Equal(t, 1, LineOf(text, 0))
	assert.Equal(t, 1, LineOf(text, 4))
	assert.Equal(t, 2, LineOf(text, 6))
	assert.Equal(t, 3, LineOf(text, len(text)))

	// out of range offsets clamp instead of panicking
	assert.Equal(t, 1, LineOf(text, -3))
	assert.Equal(t, 3, LineOf(text, len(text)+10))
}

func TestSnippetAtBounds(t *testing.T) {
	text := "short text"
	assert.Equal(t, text, SnippetAt(text, Span{Start: 0, End: len(text)}))
}

func TestSnippetAtMargin(t *testing.T) {
	pad := make([]byte, 100)
	for i := range pad {
		pad[i] = 'x'
	}
	text := string(pad) + "MATCH" + string(pad)

	got := SnippetAt(text, Span{Start: 100, End: 105})
	assert.Len(t, got, 60+5+60)
	assert.Contains(t, got, "MATCH")
}

func TestSnippetAtEscapesNewlines(t *testing.T) {
	text := "line one\nSELECT STAWN\nline three"
	got := SnippetAt(text, Span{Start: 9, End: 21})

	assert.NotContains(t, got, "\n")
	assert.Contains(t, got, `line one\nSELECT STAWN\nline three`)
}
