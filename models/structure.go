package models

// PartyPattern describes the economic relationship between the parties
type PartyPattern string

const (
	PartyHighIncomeVsPrimaryCarer PartyPattern = "high_income_vs_primary_carer"
	PartyBusinessOwnerVsEmployee  PartyPattern = "business_owner_vs_employee"
	PartyEqualPartners            PartyPattern = "equal_partners"
	PartyStandardDispute          PartyPattern = "standard_dispute"
)

// IssueType is a category of relief in dispute
type IssueType string

const (
	IssueParenting    IssueType = "parenting"
	IssueProperty     IssueType = "property"
	IssueChildSupport IssueType = "child_support"
)

// TemporalPattern describes the length and form of the relationship
type TemporalPattern string

const (
	TemporalLongMarriage   TemporalPattern = "long_marriage"
	TemporalShortMarriage  TemporalPattern = "short_marriage"
	TemporalDeFacto        TemporalPattern = "de_facto"
	TemporalMediumMarriage TemporalPattern = "medium_marriage"
)

// AssetComplexity describes how hard the asset pool is to value and divide
type AssetComplexity string

const (
	AssetComplexStructure  AssetComplexity = "complex_structure"
	AssetBusinessInterests AssetComplexity = "business_interests"
	AssetHighValue         AssetComplexity = "high_value"
	AssetSimplePool        AssetComplexity = "simple_pool"
)

// AgeRange is the dominant age bracket of the children
type AgeRange string

const (
	AgePreschool AgeRange = "preschool"
	AgePrimary   AgeRange = "primary"
	AgeTeenager  AgeRange = "teenager"
)

// ChildFactors summarises the children involved in a matter
type ChildFactors struct {
	Count        int      `json:"count"`
	AgeRange     AgeRange `json:"age_range"`
	SpecialNeeds bool     `json:"special_needs"`
}

// CaseStructure is the entity-independent fingerprint of a case. Every field
// always carries a value; missing signal maps to the default category.
type CaseStructure struct {
	PartyPattern    PartyPattern    `json:"party_pattern"`
	IssueTypes      []IssueType     `json:"issue_types"`
	TemporalPattern TemporalPattern `json:"temporal_pattern"`
	AssetComplexity AssetComplexity `json:"asset_complexity"`
	ChildFactors    ChildFactors    `json:"child_factors"`
}

// HasIssue reports whether the structure lists the given issue type
func (s CaseStructure) HasIssue(issue IssueType) bool {
	for _, it := range s.IssueTypes {
		if it == issue {
			return true
		}
	}
	return false
}

// CaseDates holds the first two years mentioned in a text
type CaseDates struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

// CaseFacts holds display-only facts pulled from a text. Never used for ranking.
type CaseFacts struct {
	Dates   CaseDates `json:"dates"`
	Amounts []string  `json:"amounts"`
}
