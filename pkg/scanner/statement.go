package scanner

import (
	"regexp"
	"strings"
)

var (
	selectRe = regexp.MustCompile(`(?i)\bSELECT\b`)
	fromRe   = regexp.MustCompile(`(?i)\bFROM\b\s+(\w+)`)
	joinRe   = regexp.MustCompile(`(?i)\bJOIN\s+(\w+)`)
)

// Span is a half-open character interval [Start, End) into a unit's code.
type Span struct {
	Start int
	End   int
}

// StatementBlock is one candidate query block found in a unit's code.
// Table is the upper-cased primary target table; Rest is the sub-span
// following the table identifier, where join clauses and trailing
// predicates live. RestStart is the unit-absolute offset of Rest.
type StatementBlock struct {
	Span      Span
	Table     string
	Rest      string
	RestStart int
}

// JoinHit is one join clause inside a block's rest sub-span. Span is
// unit-absolute, covering the JOIN keyword and the table identifier.
type JoinHit struct {
	Table string
	Span  Span
}

// BlockScanner yields statement blocks left to right. A SELECT keyword
// only becomes a block when FROM plus a bare identifier occurs before
// the next SELECT keyword (or end of text); otherwise the candidate is
// skipped. The block span runs from the SELECT keyword up to the next
// SELECT keyword or end of text. There is no awareness of string
// literals, comments or nested sub-selects; a keyword inside a literal
// counts the same as one in code.
type BlockScanner struct {
	src    string
	starts [][]int
	idx    int
}

// NewBlockScanner starts a scan over a unit's raw code.
func NewBlockScanner(src string) *BlockScanner {
	return &BlockScanner{
		src:    src,
		starts: selectRe.FindAllStringIndex(src, -1),
	}
}

// Next returns the next statement block, or ok=false when the text is
// exhausted.
func (b *BlockScanner) Next() (StatementBlock, bool) {
	for b.idx < len(b.starts) {
		start := b.starts[b.idx]
		end := len(b.src)
		if b.idx+1 < len(b.starts) {
			end = b.starts[b.idx+1][0]
		}
		b.idx++

		// the table clause must land inside this block's window
		window := b.src[start[1]:end]
		m := fromRe.FindStringSubmatchIndex(window)
		if m == nil {
			continue
		}

		restStart := start[1] + m[3]
		return StatementBlock{
			Span:      Span{Start: start[0], End: end},
			Table:     strings.ToUpper(window[m[2]:m[3]]),
			Rest:      b.src[restStart:end],
			RestStart: restStart,
		}, true
	}
	return StatementBlock{}, false
}

// Joins returns the join hits of a block's rest sub-span, in order of
// appearance, with unit-absolute spans.
func (blk *StatementBlock) Joins() []JoinHit {
	var hits []JoinHit
	for _, m := range joinRe.FindAllStringSubmatchIndex(blk.Rest, -1) {
		hits = append(hits, JoinHit{
			Table: strings.ToUpper(blk.Rest[m[2]:m[3]]),
			Span:  Span{Start: blk.RestStart + m[0], End: blk.RestStart + m[1]},
		})
	}
	return hits
}
