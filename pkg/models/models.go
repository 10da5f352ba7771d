package models

import (
	"encoding/json"
	"time"
)

// Unit is one scannable ABAP source fragment, as delivered by the
// extraction pipeline (one routine, method or class implementation).
type Unit struct {
	PgmName             string `json:"pgm_name"`
	IncName             string `json:"inc_name"`
	Type                string `json:"type"`
	Name                string `json:"name"`
	ClassImplementation string `json:"class_implementation"`
	StartLine           int    `json:"start_line"`
	EndLine             int    `json:"end_line"`
	Code                string `json:"code"`
}

// Valid reports whether the unit carries every required field.
func (u *Unit) Valid() bool {
	return u.PgmName != "" && u.IncName != "" && u.Type != "" && u.Code != ""
}

// ScanResult is the per-unit output: the unit metadata plus the ordered
// findings. A clean unit has Findings == nil, never an empty slice, so
// "clean" and "has findings" stay distinguishable on the wire.
type ScanResult struct {
	ID uint `json:"-" gorm:"primarykey"`

	PgmName             string `json:"pgm_name"`
	IncName             string `json:"inc_name"`
	Type                string `json:"type"`
	Name                string `json:"name"`
	ClassImplementation string `json:"class_implementation"`
	StartLine           int    `json:"start_line"`
	EndLine             int    `json:"end_line"`
	Code                string `json:"code"`

	// SHA-1 of the unit code, used by the control database to skip
	// units that were already scanned.
	Fingerprint string `json:"fingerprint"`
	// Simhash shingle of the unit code, for near-duplicate grouping
	// at report time.
	Shingle string `json:"shingle"`

	ScanID    string    `json:"scan_id"`
	ScannedAt time.Time `json:"scanned_at"`

	// Failed flag set if the result should be considered failed
	Failed       bool   `json:"failed"`
	FailedReason string `json:"failed_reason"`

	Findings []Finding `json:"findings,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (ScanResult) TableName() string {
	return "results"
}

// Clone returns a copy of the result with its own findings slice.
func (r *ScanResult) Clone() *ScanResult {
	r1 := *r
	r1.Findings = make([]Finding, len(r.Findings))
	copy(r1.Findings, r.Findings)
	return &r1
}

// IssueKind is the finding category.
type IssueKind int

const (
	// DirectFieldAccess flags a watched field read on the statement's
	// primary target table.
	DirectFieldAccess IssueKind = iota
	// JoinIntroducedFieldAccess flags a watched field read on a table
	// brought in through a join clause.
	JoinIntroducedFieldAccess
)

// String returns the wire value consumed downstream; do not change it.
func (k IssueKind) String() string {
	if k == JoinIntroducedFieldAccess {
		return "SensitiveFieldJoinAccess"
	}
	return "SensitiveFieldDirectAccess"
}

func (k IssueKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *IssueKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "SensitiveFieldJoinAccess" {
		*k = JoinIntroducedFieldAccess
	} else {
		*k = DirectFieldAccess
	}
	return nil
}

// Finding is one reported, deduplicated violation.
type Finding struct {
	ID           uint `json:"-" gorm:"primarykey"`
	ScanResultID uint `json:"-"`

	PgmName             string `json:"pgm_name"`
	IncName             string `json:"inc_name"`
	Type                string `json:"type"`
	Name                string `json:"name"`
	ClassImplementation string `json:"class_implementation"`
	StartLine           int    `json:"start_line"`
	EndLine             int    `json:"end_line"`

	IssueType IssueKind `json:"issue_type"`
	Severity  string    `json:"severity"`

	Table string `json:"table"`
	Field string `json:"field"`

	// Line is the 1-based line of the span start within the unit code.
	Line      int `json:"line"`
	SpanStart int `json:"span_start"`
	SpanEnd   int `json:"span_end"`

	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
	Snippet    string `json:"snippet"`
}
