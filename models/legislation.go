package models

// Act identifies a piece of legislation
type Act struct {
	Name     string `json:"name"`
	Citation string `json:"citation"`
}

// LegislationSection represents a single section of an act
type LegislationSection struct {
	Section    string   `json:"section"`
	Subsection *string  `json:"subsection,omitempty"`
	Title      string   `json:"title"`
	LegalTest  string   `json:"legal_test"`
	Keywords   []string `json:"keywords"`
	Summary    string   `json:"summary"`
}

// LegislationDocument is one act together with its sections
type LegislationDocument struct {
	Act      Act                  `json:"act"`
	Sections []LegislationSection `json:"sections"`
}
