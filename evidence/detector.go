// Package evidence finds legally material facts missing from a narrative and
// ranks them by expected value of information (EVI).
package evidence

import (
	"math"
	"sort"
	"strings"

	"lexalign-backend/models"
	"lexalign-backend/textutil"
)

// Detector scores missing checklist elements. Its checklists are fixed at
// construction and never mutated, so it is safe for concurrent use.
type Detector struct {
	checklists map[CaseType][]Element
}

// NewDetector creates a detector with the built-in checklists
func NewDetector() *Detector {
	mixed := make([]Element, 0, len(propertyChecklist)+len(parentingChecklist))
	mixed = append(mixed, propertyChecklist...)
	mixed = append(mixed, parentingChecklist...)

	return &Detector{
		checklists: map[CaseType][]Element{
			CaseTypeProperty:  propertyChecklist,
			CaseTypeParenting: parentingChecklist,
			CaseTypeMixed:     mixed,
		},
	}
}

// ClassifyCaseType picks mixed when both parenting and property signals are
// present, parenting when only parenting signals are, and property otherwise.
func (d *Detector) ClassifyCaseType(text string) CaseType {
	t := textutil.ScrubNegatedChildren(textutil.Normalize(text))
	parenting := parentingSignalPattern.MatchString(t)
	property := propertySignalPattern.MatchString(t)

	switch {
	case parenting && property:
		return CaseTypeMixed
	case parenting:
		return CaseTypeParenting
	default:
		return CaseTypeProperty
	}
}

// Checklist returns the required elements for a case type.
func (d *Detector) Checklist(caseType CaseType) []Element {
	return d.checklists[caseType]
}

// TimelineCoverage is 0.2 per distinct year mentioned, capped at 1.
func TimelineCoverage(text string) float64 {
	return math.Min(yearCoverageStep*float64(textutil.DistinctYears(text)), maxTimelineCoverage)
}

// EVI combines importance, narrative uncertainty and accessibility.
func EVI(importance, accessibility, timelineCoverage float64) float64 {
	entropy := 1 - coverageEntropyDrop*timelineCoverage
	return importance * entropy * accessibility
}

// DetectGaps returns the checklist elements absent from text, highest EVI
// first. Ties keep checklist order. No gaps yields an empty slice.
func (d *Detector) DetectGaps(text string) []models.EvidenceGap {
	caseType := d.ClassifyCaseType(text)
	lower := strings.ToLower(text)
	coverage := TimelineCoverage(text)

	gaps := []models.EvidenceGap{}
	for _, el := range d.checklists[caseType] {
		if textutil.ContainsAny(lower, el.Keywords) {
			continue
		}
		gaps = append(gaps, models.EvidenceGap{
			Element:        el.Name,
			Importance:     el.Importance,
			Reason:         el.Reason,
			SuggestedQuery: el.SuggestedQuery,
			EVI:            EVI(el.Importance, el.Accessibility, coverage),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].EVI > gaps[j].EVI
	})
	return gaps
}

// Significant keeps gaps whose EVI exceeds threshold, up to limit entries.
// Input must already be sorted by DetectGaps.
func Significant(gaps []models.EvidenceGap, threshold float64, limit int) []models.EvidenceGap {
	out := []models.EvidenceGap{}
	for _, g := range gaps {
		if g.EVI <= threshold {
			continue
		}
		out = append(out, g)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
