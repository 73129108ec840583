package evidence

import "regexp"

// CaseType selects the checklist of required elements
type CaseType string

const (
	CaseTypeProperty  CaseType = "property"
	CaseTypeParenting CaseType = "parenting"
	CaseTypeMixed     CaseType = "mixed"
)

// Element is one legally required fact of a checklist. Accessibility is how
// likely an ordinary user is to know or volunteer the fact unprompted.
type Element struct {
	Name           string
	Importance     float64
	Accessibility  float64
	Reason         string
	SuggestedQuery string
	Keywords       []string
}

var propertyChecklist = []Element{
	{
		Name:           "marriage_date",
		Importance:     0.8,
		Accessibility:  0.9,
		Reason:         "The length of the relationship affects how contributions are weighed",
		SuggestedQuery: "When did you marry or start living together?",
		Keywords:       []string{"married", "marriage", "wedding", "moved in together"},
	},
	{
		Name:           "separation_date",
		Importance:     0.9,
		Accessibility:  0.9,
		Reason:         "Separation fixes the time limit for property proceedings",
		SuggestedQuery: "When did you separate?",
		Keywords:       []string{"separated", "separation", "split up", "broke up"},
	},
	{
		Name:           "asset_pool",
		Importance:     1.0,
		Accessibility:  0.8,
		Reason:         "The court must identify and value the net asset pool first",
		SuggestedQuery: "What assets and debts do you and your former partner have?",
		Keywords:       []string{"asset", "property", "house", "home", "superannuation", "savings", "pool", "shares"},
	},
	{
		Name:           "contributions",
		Importance:     0.9,
		Accessibility:  0.6,
		Reason:         "Financial and non-financial contributions drive the division",
		SuggestedQuery: "What did each of you contribute financially and as homemaker or parent?",
		Keywords:       []string{"contribut", "homemaker", "income", "earned", "salary", "paid"},
	},
	{
		Name:           "future_needs",
		Importance:     0.7,
		Accessibility:  0.5,
		Reason:         "Future needs such as health, age and earning capacity can adjust the split",
		SuggestedQuery: "Are there health, age, care or earning capacity issues affecting either of you?",
		Keywords:       []string{"future needs", "health", "earning capacity", "illness", "retire"},
	},
}

var parentingChecklist = []Element{
	{
		Name:           "children_details",
		Importance:     1.0,
		Accessibility:  0.95,
		Reason:         "Orders are made about specific children and their ages",
		SuggestedQuery: "How many children are involved and how old are they?",
		Keywords:       []string{"child", "son", "daughter", "aged"},
	},
	{
		Name:           "current_arrangements",
		Importance:     0.9,
		Accessibility:  0.9,
		Reason:         "The status quo is weighed when deciding future arrangements",
		SuggestedQuery: "Who do the children live with now and how often do they see the other parent?",
		Keywords:       []string{"live with", "lives with", "arrangement", "weekend", "custody", "spend time", "stays with"},
	},
	{
		Name:           "safety_risk",
		Importance:     1.0,
		Accessibility:  0.85,
		Reason:         "Protection from harm is a primary consideration",
		SuggestedQuery: "Are there any concerns about family violence, abuse or the children's safety?",
		Keywords:       []string{"violence", "abuse", "safety", "unsafe", "risk", "danger", "police", "intervention order", "avo"},
	},
	{
		Name:           "relationship_quality",
		Importance:     0.6,
		Accessibility:  0.8,
		Reason:         "The benefit of a meaningful relationship with both parents is a primary consideration",
		SuggestedQuery: "How would you describe the children's relationship with each parent?",
		Keywords:       []string{"relationship with", "close to", "bond", "attached"},
	},
}

// Case type signal groups.
var (
	parentingSignalPattern = regexp.MustCompile(`child|parenting|custody`)
	propertySignalPattern  = regexp.MustCompile(`property|asset|pool|superannuation|house`)
)

// Scoring constants.
const (
	yearCoverageStep    = 0.2
	maxTimelineCoverage = 1.0
	coverageEntropyDrop = 0.5

	// DefaultSignificanceThreshold is the EVI above which a gap is worth asking about.
	DefaultSignificanceThreshold = 0.5
	// DefaultMaxGaps is how many gaps the aggregation layer shows a user.
	DefaultMaxGaps = 3
)
