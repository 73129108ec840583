package structure

import "regexp"

// Party pattern terms. Tested against normalized text in the order
// high income > business > equal partners.
var (
	homemakerTerms    = []string{"homemaker"}
	highIncomeTerms   = []string{"high income", "breadwinner"}
	businessTerms     = []string{"business"}
	employeeTerms     = []string{"employee"}
	equalPartnerTerms = []string{"equal contribution", "dual income"}
)

// Issue type signals.
var (
	parentingIssuePattern    = regexp.MustCompile(`child|parenting|custody|live with|spend time`)
	propertyIssuePattern     = regexp.MustCompile(`property|asset|pool|superannuation|house`)
	childSupportIssuePattern = regexp.MustCompile(`support|maintenance`)
)

// Marriage length bands, in years.
const (
	longMarriageMinYears  = 15
	longMarriageMaxYears  = 99
	shortMarriageMaxYears = 4
)

var (
	marriageLengthPattern = regexp.MustCompile(`(\d+)\s*-?\s*years?'?s?\s+(?:of\s+)?marriage`)
	deFactoTerms          = []string{"de facto"}
)

// Asset complexity terms, highest priority first.
var (
	complexStructureTerms = []string{"trust", "company", "structure", "offshore"}
	businessInterestTerms = []string{"business", "partnership"}
	highValueTerms        = []string{"million", "high net worth"}
)

// Child factor signals.
var (
	childCountPattern   = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s+(?:[a-z]+\s+)?children\b`)
	childMentionTerms   = []string{"child"}
	preschoolPattern    = regexp.MustCompile(`baby|infant|toddler`)
	teenagerPattern     = regexp.MustCompile(`teenager|adolescent|\b1[3-9]\b`)
	specialNeedsPattern = regexp.MustCompile(`autism|adhd|disability|special needs`)
	numberWords         = map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10}
)

// Display-only fact patterns.
var amountPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:million|m|k)\b)?`)

// Best-effort percentage split, e.g. "60% to the wife".
var outcomePattern = regexp.MustCompile(`(\d{1,3})\s*%\s*(?:of the (?:net )?(?:asset )?pool\s+)?(?:to|in favour of)\s+the\s+(wife|husband|mother|father|applicant|respondent)`)

// Similarity weights. They sum to 1.0.
const (
	weightPartyPattern    = 0.35
	weightIssueTypes      = 0.25
	weightTemporalPattern = 0.15
	weightAssetComplexity = 0.15
	weightChildFactors    = 0.10
)

const (
	defaultTopK = 5

	// MethodNearestNeighbor labels predictions taken from the single closest precedent.
	MethodNearestNeighbor = "nearest_neighbor"

	judicialDiscretionOutcome = "Outcome subject to judicial discretion"
)
