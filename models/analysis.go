package models

import (
	"github.com/google/uuid"
)

// StructuralMatch is a precedent scored against a new situation
type StructuralMatch struct {
	Citation   string  `json:"citation"`
	Similarity float64 `json:"similarity"`
	Outcome    *string `json:"outcome,omitempty"`
	Reasoning  string  `json:"reasoning"`
}

// Prediction is the nearest-neighbour outcome estimate for a situation.
// Confidence is the similarity of the single closest precedent, not a
// calibrated probability.
type Prediction struct {
	Outcome              *string           `json:"outcome"`
	Confidence           float64           `json:"confidence"`
	Reasoning            string            `json:"reasoning"`
	Method               string            `json:"method"`
	StructuralPrecedents []StructuralMatch `json:"structural_precedents"`
}

// EvidenceGap is a legally material fact missing from a narrative
type EvidenceGap struct {
	Element        string  `json:"element"`
	Importance     float64 `json:"importance"`
	Reason         string  `json:"reason"`
	SuggestedQuery string  `json:"suggested_query"`
	EVI            float64 `json:"evi"`
}

// Concept is a (role, filler) pair extracted from free text
type Concept struct {
	Role   string `json:"role"`
	Filler string `json:"filler"`
}

// ValidationIssue describes a concept that is not licensed by the ontology
type ValidationIssue struct {
	Role      string  `json:"role"`
	Invalid   string  `json:"invalid"`
	Suggested *string `json:"suggested,omitempty"`
	Reason    string  `json:"reason"`
}

// ValidationResult is the outcome of checking a text against the ontology
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Issues     []ValidationIssue `json:"issues"`
	Confidence float64           `json:"confidence"`
	Concepts   []Concept         `json:"concepts"`
}

// RankedCase is a corpus case with its relevance score
type RankedCase struct {
	Citation     string     `json:"citation"`
	Jurisdiction string     `json:"jurisdiction"`
	Date         *string    `json:"date,omitempty"`
	Court        string     `json:"court,omitempty"`
	Kind         RecordKind `json:"kind"`
	Score        float64    `json:"score"`
	BaseScore    float64    `json:"base_score"`
}

// RankedSection is a legislation section with its relevance score
type RankedSection struct {
	Act        string  `json:"act"`
	Section    string  `json:"section"`
	Subsection *string `json:"subsection,omitempty"`
	Title      string  `json:"title"`
	LegalTest  string  `json:"legal_test"`
	Summary    string  `json:"summary"`
	Score      int     `json:"score"`
}

// Gap statuses reported in MissingEvidence
const (
	EvidenceComplete   = "complete"
	EvidenceIncomplete = "incomplete"
)

// MissingEvidence summarises significant evidence gaps for the user
type MissingEvidence struct {
	Status         string        `json:"status"`
	CaseType       string        `json:"case_type"`
	Gaps           []EvidenceGap `json:"gaps,omitempty"`
	Recommendation *string       `json:"recommendation,omitempty"`
}

// AlignmentValidation is the validation block of a StatutoryAlignment
type AlignmentValidation struct {
	Valid           bool              `json:"valid"`
	Issues          []ValidationIssue `json:"issues"`
	ConfidenceScore float64           `json:"confidence_score"`
}

// StatutoryAlignment is the composite response for one story
type StatutoryAlignment struct {
	RequestID          uuid.UUID           `json:"request_id"`
	MissingEvidence    MissingEvidence     `json:"missing_evidence"`
	Prediction         Prediction          `json:"prediction"`
	Validation         AlignmentValidation `json:"validation"`
	ApplicableLaw      []RankedSection     `json:"applicable_law"`
	SimilarCases       []RankedCase        `json:"similar_cases"`
	KeywordsIdentified []string            `json:"keywords_identified"`
}
