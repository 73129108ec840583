package models

// Classification holds the domain tags attached to a corpus record
type Classification struct {
	PrimaryCategory string `json:"primary_category"`
}

// CaseRecord represents one record of the case corpus. Records are loaded
// once and never mutated.
type CaseRecord struct {
	Citation       string         `json:"citation"`
	Text           string         `json:"text"`
	Date           *string        `json:"date"`
	Jurisdiction   string         `json:"jurisdiction"`
	Type           string         `json:"type"` // "decision", "primary_legislation", "secondary_legislation"
	Classification Classification `json:"classification"`
	Outcome        *string        `json:"outcome,omitempty"`
}

// RecordKind is the result of classifying a corpus record
type RecordKind string

const (
	KindLegislation      RecordKind = "legislation"
	KindReportedCase     RecordKind = "reported_case"
	KindNamedMatter      RecordKind = "named_matter"
	KindUnrecognizedCase RecordKind = "unrecognized_case"
)

// IsCase reports whether the kind is treated as case law
func (k RecordKind) IsCase() bool {
	return k != KindLegislation
}
