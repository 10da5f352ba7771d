package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Field is one watched field and its remediation instruction.
type Field struct {
	Name        string
	Remediation string

	re *regexp.Regexp
}

// Matches reports whether the field name occurs as a whole word,
// case-insensitive, anywhere in the window.
func (f *Field) Matches(window string) bool {
	return f.re.MatchString(window)
}

// Ruleset is the static sensitivity rule table: the watched tables, the
// watched fields (in insertion order, so output ordering is stable) and
// the message templates. Built once at startup and shared read-only by
// every scan.
type Ruleset struct {
	RuleID      string
	Note        string
	Description string

	tables map[string]struct{}
	fields []*Field
}

// NewRuleset builds a rule table. Field order is preserved.
func NewRuleset(ruleID, note, description string, tables []string, fields []*Field) *Ruleset {
	ts := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		ts[strings.ToUpper(t)] = struct{}{}
	}
	for _, f := range fields {
		f.Name = strings.ToUpper(f.Name)
		f.re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(f.Name) + `\b`)
	}
	return &Ruleset{
		RuleID:      ruleID,
		Note:        note,
		Description: description,
		tables:      ts,
		fields:      fields,
	}
}

// WatchedTable reports whether the table is in the watched set.
func (rs *Ruleset) WatchedTable(table string) bool {
	_, ok := rs.tables[strings.ToUpper(table)]
	return ok
}

// Fields returns the watched fields in insertion order.
func (rs *Ruleset) Fields() []*Field {
	return rs.fields
}

// MatchFields is the field sensitivity classifier: when the table is
// watched it returns the watched fields that occur whole-word and
// case-insensitive within the window. An unwatched table short-circuits
// to nil without scanning any field pattern.
func (rs *Ruleset) MatchFields(table, window string) []*Field {
	if !rs.WatchedTable(table) {
		return nil
	}
	var hits []*Field
	for _, f := range rs.fields {
		if f.Matches(window) {
			hits = append(hits, f)
		}
	}
	return hits
}

// Remediation returns the remediation text for a watched field, or "".
func (rs *Ruleset) Remediation(field string) string {
	field = strings.ToUpper(field)
	for _, f := range rs.fields {
		if f.Name == field {
			return f.Remediation
		}
	}
	return ""
}

// Message renders the finding message for a field read on a table.
func (rs *Ruleset) Message(field, table string) string {
	return fmt.Sprintf("Field %s must NOT be read directly from %s (SAP Note %s). %s",
		strings.ToUpper(field), strings.ToUpper(table), rs.Note, rs.Remediation(field))
}

// Keywords returns the lowercased prefilter keyword set for this rule
// table: the statement start keyword plus every watched field name. A
// unit whose code contains none of them cannot produce a finding.
func (rs *Ruleset) Keywords() map[string]struct{} {
	kw := map[string]struct{}{"select": {}}
	for _, f := range rs.fields {
		kw[strings.ToLower(f.Name)] = struct{}{}
	}
	return kw
}
