package ontology

// Role names. Every role must be present in an Ontology.
const (
	PartyRole        = "PARTY_ROLE"
	AssetRole        = "ASSET_ROLE"
	LiabilityRole    = "LIABILITY_ROLE"
	IncomeRole       = "INCOME_ROLE"
	ContributionRole = "CONTRIBUTION_ROLE"
	OutcomeRole      = "OUTCOME_ROLE"
	TemporalRole     = "TEMPORAL_ROLE"
	LegalTestRole    = "LEGAL_TEST_ROLE"
	SectionRole      = "SECTION_ROLE"
)

// RequiredRoles lists the roles an ontology must define.
var RequiredRoles = []string{
	PartyRole, AssetRole, LiabilityRole, IncomeRole, ContributionRole,
	OutcomeRole, TemporalRole, LegalTestRole, SectionRole,
}

// Ontology maps a role to its ordered list of valid fillers. Order matters:
// suggestions take the first containing filler.
type Ontology map[string][]string

// DefaultOntology returns the closed family law vocabulary.
func DefaultOntology() Ontology {
	return Ontology{
		PartyRole: {
			"husband", "wife", "mother", "father", "applicant", "respondent",
			"partner", "de facto partner", "child", "children", "grandparent",
			"independent children's lawyer",
		},
		AssetRole: {
			"family home", "investment property", "house", "home", "apartment", "unit", "land",
			"superannuation", "shares", "business", "company", "trust", "savings",
			"bank account", "cash", "vehicle", "car", "boat", "furniture", "jewellery",
			"inheritance", "redundancy payment", "compensation payout", "cryptocurrency",
		},
		LiabilityRole: {
			"mortgage", "home loan", "personal loan", "car loan", "business loan",
			"credit card", "tax debt", "loan", "debt", "overdraft", "hecs debt",
		},
		IncomeRole: {
			"salary", "wages", "business income", "rental income", "dividends",
			"government benefits", "child support", "spousal maintenance", "pension",
		},
		ContributionRole: {
			"financial contribution", "non-financial contribution", "homemaker contribution",
			"parenting contribution", "initial contribution", "inheritance contribution",
		},
		OutcomeRole: {
			"equal shared parental responsibility", "sole parental responsibility",
			"lives with", "spends time with", "property settlement", "adjustment",
			"spousal maintenance order", "injunction", "dismissed",
		},
		TemporalRole: {
			"long marriage", "short marriage", "medium marriage", "de facto relationship",
			"separation", "cohabitation", "date of hearing",
		},
		LegalTestRole: {
			"best interests of the child", "just and equitable", "four step process",
			"unacceptable risk", "meaningful relationship", "future needs", "contributions",
		},
		SectionRole: {
			"s4", "s4AA", "s44", "s60B", "s60CA", "s60CC", "s60CC(2)", "s60CC(3)",
			"s61B", "s61DA", "s65D", "s65DAA", "s66G", "s72", "s74", "s75", "s75(2)",
			"s79", "s79(2)", "s79(4)", "s79A", "s90SB", "s90SF", "s90SM", "s90SM(4)",
			"s106B", "s114",
		},
	}
}
