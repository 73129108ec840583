// Package structure reduces case narratives to structural fingerprints and
// ranks precedents by how closely their fingerprints match.
package structure

import (
	"strconv"
	"strings"

	"lexalign-backend/models"
	"lexalign-backend/textutil"
)

// Factorizer converts free text into a CaseStructure using literal keyword
// and pattern rules. It holds no state and is safe for concurrent use.
type Factorizer struct{}

// NewFactorizer creates a new factorizer
func NewFactorizer() *Factorizer {
	return &Factorizer{}
}

// Factorize derives the structural fingerprint and display facts of text.
// Empty text yields the default category for every field.
func (f *Factorizer) Factorize(text string) (models.CaseStructure, models.CaseFacts) {
	normalized := textutil.Normalize(text)
	childText := textutil.ScrubNegatedChildren(normalized)

	structure := models.CaseStructure{
		PartyPattern:    classifyParty(normalized),
		IssueTypes:      classifyIssues(normalized, childText),
		TemporalPattern: classifyTemporal(normalized),
		AssetComplexity: classifyAssets(normalized),
		ChildFactors:    classifyChildren(childText),
	}

	return structure, extractFacts(normalized)
}

func classifyParty(t string) models.PartyPattern {
	switch {
	case textutil.ContainsAny(t, homemakerTerms) && textutil.ContainsAny(t, highIncomeTerms):
		return models.PartyHighIncomeVsPrimaryCarer
	case textutil.ContainsAny(t, businessTerms) && textutil.ContainsAny(t, employeeTerms):
		return models.PartyBusinessOwnerVsEmployee
	case textutil.ContainsAny(t, equalPartnerTerms):
		return models.PartyEqualPartners
	default:
		return models.PartyStandardDispute
	}
}

func classifyIssues(t, childText string) []models.IssueType {
	issues := []models.IssueType{}
	if parentingIssuePattern.MatchString(childText) {
		issues = append(issues, models.IssueParenting)
	}
	if propertyIssuePattern.MatchString(t) {
		issues = append(issues, models.IssueProperty)
	}
	if childSupportIssuePattern.MatchString(t) {
		issues = append(issues, models.IssueChildSupport)
	}
	return issues
}

func classifyTemporal(t string) models.TemporalPattern {
	for _, m := range marriageLengthPattern.FindAllStringSubmatch(t, -1) {
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if years >= longMarriageMinYears && years <= longMarriageMaxYears {
			return models.TemporalLongMarriage
		}
		if years <= shortMarriageMaxYears {
			return models.TemporalShortMarriage
		}
	}
	if textutil.ContainsAny(t, deFactoTerms) {
		return models.TemporalDeFacto
	}
	return models.TemporalMediumMarriage
}

func classifyAssets(t string) models.AssetComplexity {
	switch {
	case textutil.ContainsAny(t, complexStructureTerms):
		return models.AssetComplexStructure
	case textutil.ContainsAny(t, businessInterestTerms):
		return models.AssetBusinessInterests
	case textutil.ContainsAny(t, highValueTerms):
		return models.AssetHighValue
	default:
		return models.AssetSimplePool
	}
}

func classifyChildren(childText string) models.ChildFactors {
	factors := models.ChildFactors{AgeRange: models.AgePrimary}

	if m := childCountPattern.FindStringSubmatch(childText); m != nil {
		factors.Count = parseCount(m[1])
	} else if textutil.ContainsAny(childText, childMentionTerms) {
		factors.Count = 1
	}

	switch {
	case preschoolPattern.MatchString(childText):
		factors.AgeRange = models.AgePreschool
	case teenagerPattern.MatchString(childText):
		factors.AgeRange = models.AgeTeenager
	}

	factors.SpecialNeeds = specialNeedsPattern.MatchString(childText)
	return factors
}

func parseCount(token string) int {
	if n, ok := numberWords[token]; ok {
		return n
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func extractFacts(t string) models.CaseFacts {
	facts := models.CaseFacts{Amounts: []string{}}

	years := textutil.Years(t)
	if len(years) > 0 {
		facts.Dates.Start = &years[0]
	}
	if len(years) > 1 {
		facts.Dates.End = &years[1]
	}

	for _, a := range amountPattern.FindAllString(t, -1) {
		facts.Amounts = append(facts.Amounts, strings.TrimRight(strings.TrimSpace(a), ","))
	}
	return facts
}

// extractOutcome finds a recorded percentage split in a decision, if any.
func extractOutcome(text string) *string {
	m := outcomePattern.FindStringSubmatch(textutil.Normalize(text))
	if m == nil {
		return nil
	}
	outcome := m[1] + "% to the " + m[2]
	return &outcome
}
