package scanner

import (
	"strings"
	"time"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"golang.org/x/exp/maps"

	"github.com/helviojunior/abapscan/pkg/models"
	"github.com/helviojunior/abapscan/pkg/rules"
)

// Detector runs the sensitivity rule table over single units. It is
// pure computation over the unit code: no I/O, no shared mutable state,
// safe for concurrent use across units.
type Detector struct {
	Rules *rules.Ruleset

	// prefilter is an aho-corasick trie over the rule keywords, used
	// to skip units that cannot produce a finding without running any
	// regex over them.
	prefilter *ahocorasick.Trie
}

// NewDetector builds a detector for one rule table.
func NewDetector(set *rules.Ruleset) *Detector {
	return &Detector{
		Rules:     set,
		prefilter: ahocorasick.NewTrieBuilder().AddStrings(maps.Keys(set.Keywords())).Build(),
	}
}

// dedupKey is the structural identity of a finding within one unit
// scan: same table, field and exact span means the same finding.
type dedupKey struct {
	table string
	field string
	span  Span
}

// MayMatch is the keyword prefilter: a unit can only produce findings
// when its code contains the statement start keyword and at least one
// watched field name.
func (d *Detector) MayMatch(code string) bool {
	var hasSelect, hasField bool
	for _, m := range d.prefilter.MatchString(strings.ToLower(code)) {
		if string(m.Match()) == "select" {
			hasSelect = true
		} else {
			hasField = true
		}
		if hasSelect && hasField {
			return true
		}
	}
	return false
}

// NewResult builds a result shell carrying the unit metadata and no
// findings.
func (d *Detector) NewResult(unit models.Unit) models.ScanResult {
	return models.ScanResult{
		PgmName:             unit.PgmName,
		IncName:             unit.IncName,
		Type:                unit.Type,
		Name:                unit.Name,
		ClassImplementation: unit.ClassImplementation,
		StartLine:           unit.StartLine,
		EndLine:             unit.EndLine,
		Code:                unit.Code,
		ScannedAt:           time.Now(),
	}
}

// Scan produces the unit's scan result. Findings appear in discovery
// order: blocks left to right, and within a block the primary-table
// hits before the join-introduced ones. A clean unit keeps Findings
// nil. Identical input always yields an identical result.
func (d *Detector) Scan(unit models.Unit) models.ScanResult {
	result := d.NewResult(unit)

	seen := make(map[dedupKey]struct{})
	blocks := NewBlockScanner(unit.Code)
	for blk, ok := blocks.Next(); ok; blk, ok = blocks.Next() {
		// primary table, scanned against the whole block text
		blockText := unit.Code[blk.Span.Start:blk.Span.End]
		for _, f := range d.Rules.MatchFields(blk.Table, blockText) {
			d.emit(&result, &unit, seen, blk.Table, f, blk.Span, models.DirectFieldAccess)
		}

		// join-introduced tables, scanned against the rest sub-span
		for _, jh := range blk.Joins() {
			for _, f := range d.Rules.MatchFields(jh.Table, blk.Rest) {
				d.emit(&result, &unit, seen, jh.Table, f, jh.Span, models.JoinIntroducedFieldAccess)
			}
		}
	}

	return result
}

func (d *Detector) emit(result *models.ScanResult, unit *models.Unit, seen map[dedupKey]struct{},
	table string, field *rules.Field, span Span, kind models.IssueKind) {

	key := dedupKey{table: table, field: field.Name, span: span}
	if _, ok := seen[key]; ok {
		return
	}
	seen[key] = struct{}{}

	result.Findings = append(result.Findings, models.Finding{
		PgmName:             unit.PgmName,
		IncName:             unit.IncName,
		Type:                unit.Type,
		Name:                unit.Name,
		ClassImplementation: unit.ClassImplementation,
		StartLine:           unit.StartLine,
		EndLine:             unit.EndLine,
		IssueType:           kind,
		Severity:            "error",
		Table:               table,
		Field:               field.Name,
		Line:                LineOf(unit.Code, span.Start),
		SpanStart:           span.Start,
		SpanEnd:             span.End,
		Message:             d.Rules.Message(field.Name, table),
		Suggestion:          field.Remediation,
		Snippet:             SnippetAt(unit.Code, span),
	})
}
