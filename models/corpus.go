package models

import "time"

// Corpus is one loaded snapshot of case and legislation records. A snapshot
// is never modified once built; reloading produces a new one.
type Corpus struct {
	Cases       []CaseRecord          `json:"-"`
	Legislation []LegislationDocument `json:"-"`
	Skipped     int                   `json:"skipped"`
	LoadedAt    time.Time             `json:"loaded_at"`
}

// CorpusStats summarises the current snapshot
type CorpusStats struct {
	Cases              int       `json:"cases"`
	LegislationRecords int       `json:"legislation_records"`
	Acts               int       `json:"acts"`
	Sections           int       `json:"sections"`
	Precedents         int       `json:"precedents"`
	Skipped            int       `json:"skipped"`
	Source             string    `json:"source"`
	LoadedAt           time.Time `json:"loaded_at"`
}
