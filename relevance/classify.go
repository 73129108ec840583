package relevance

import (
	"regexp"
	"strings"

	"lexalign-backend/models"
)

var (
	legislationCitationPattern = regexp.MustCompile(`\b(?:Act|Rules?|Regulations?)\s+\d{4}\b`)
	namedMatterPattern         = regexp.MustCompile(`(?i)\bin\s+the\s+(?:marriage|matter)\s+of\b`)
)

// ClassifyRecord decides what kind of record r is. Anything that is not
// recognisably legislation is treated as a case, including records whose
// citation matches no known court form; those come back as
// KindUnrecognizedCase so callers can tell them apart.
func ClassifyRecord(r models.CaseRecord) models.RecordKind {
	if legislationCitationPattern.MatchString(r.Citation) || strings.Contains(strings.ToLower(r.Type), "legislation") {
		return models.KindLegislation
	}
	if courtCitationPattern.MatchString(r.Citation) {
		return models.KindReportedCase
	}
	if namedMatterPattern.MatchString(r.Citation) {
		return models.KindNamedMatter
	}
	return models.KindUnrecognizedCase
}

// IsLegislation reports whether r is an act, rules or regulations.
func IsLegislation(r models.CaseRecord) bool {
	return ClassifyRecord(r) == models.KindLegislation
}

// IsActualCase reports whether r is treated as case law.
func IsActualCase(r models.CaseRecord) bool {
	return ClassifyRecord(r).IsCase()
}
