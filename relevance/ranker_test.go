package relevance

import (
	"strings"
	"testing"

	"lexalign-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCases_AuthorityBoost(t *testing.T) {
	cases := []models.CaseRecord{
		{Citation: "[2020] NSWDC 12", Text: "A dispute about custody."},
		{Citation: "[2020] HCA 5", Text: "Custody was contested."},
	}

	ranked := RankCases(cases, []string{"custody"}, 0)

	require.Len(t, ranked, 2)
	assert.Equal(t, "[2020] HCA 5", ranked[0].Citation)
	assert.InDelta(t, 1.5, ranked[0].Score, 1e-9)
	assert.Equal(t, "[2020] NSWDC 12", ranked[1].Citation)
	assert.InDelta(t, 1.15, ranked[1].Score, 1e-9)
	assert.Equal(t, "HCA", ranked[0].Court)
	assert.Equal(t, models.KindReportedCase, ranked[0].Kind)
}

func TestScoreCaseRelevance(t *testing.T) {
	tests := []struct {
		name     string
		citation string
		text     string
		keywords []string
		base     float64
		score    float64
	}{
		{"unknown court is neutral", "[2020] XYZ 1", "property and property", []string{"property"}, 2, 2},
		{"no citation is neutral", "Smith v Smith", "property", []string{"property"}, 1, 1},
		{"tribunal", "[2019] AATA 7", "property", []string{"property"}, 1, 1.1},
		{"hits capped at ten", "[2020] FamCA 3", strings.Repeat("asset ", 25), []string{"asset"}, 10, 13.5},
		{"case insensitive", "[2020] FCA 2", "The HOUSE was sold", []string{"House"}, 1, 1.35},
		{"no hits scores zero at any court", "[2020] HCA 1", "nothing relevant", []string{"custody"}, 0, 0},
		{"no keywords", "[2020] HCA 1", "custody", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreCaseRelevance(models.CaseRecord{Citation: tt.citation, Text: tt.text}, tt.keywords)
			assert.Equal(t, tt.base, s.Base)
			assert.InDelta(t, tt.score, s.Score, 1e-9)
		})
	}
}

func TestRankCases_FiltersAndLimits(t *testing.T) {
	cases := []models.CaseRecord{
		{Citation: "Family Law Act 1975", Text: "property property property"},
		{Citation: "[2021] FamCA 1", Text: "property"},
		{Citation: "[2021] FamCA 2", Text: "nothing"},
		{Citation: "[2021] FamCA 3", Text: "property"},
		{Citation: "[2021] FamCA 4", Text: "property property"},
	}

	ranked := RankCases(cases, []string{"property"}, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "[2021] FamCA 4", ranked[0].Citation)
	assert.Equal(t, "[2021] FamCA 1", ranked[1].Citation, "equal scores keep corpus order")

	all := RankCases(cases, []string{"property"}, 10)
	require.Len(t, all, 3)
	for _, rc := range all {
		assert.NotEqual(t, "Family Law Act 1975", rc.Citation)
		assert.NotEqual(t, "[2021] FamCA 2", rc.Citation)
	}
}

func TestRankCases_EmptyInputs(t *testing.T) {
	assert.Empty(t, RankCases(nil, []string{"custody"}, 5))
	assert.Empty(t, RankCases([]models.CaseRecord{{Citation: "[2020] HCA 1", Text: "custody"}}, nil, 5))
}

func TestRankCases_Deterministic(t *testing.T) {
	cases := []models.CaseRecord{
		{Citation: "[2020] FamCA 1", Text: "custody"},
		{Citation: "[2020] FamCA 2", Text: "custody"},
		{Citation: "[2020] FamCA 3", Text: "custody"},
	}
	first := RankCases(cases, []string{"custody"}, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RankCases(cases, []string{"custody"}, 5))
	}
}

func TestCourtCode(t *testing.T) {
	assert.Equal(t, "HCA", CourtCode("[2020] HCA 5"))
	assert.Equal(t, "FedCFamC1F", CourtCode("Smith & Jones [2022] FedCFamC1F 100"))
	assert.Equal(t, "", CourtCode("In the Marriage of Mallet"))
	assert.Equal(t, WeightHighCourt, CourtWeight("HCA"))
	assert.Equal(t, 0, CourtWeight("NOPE"))
	assert.Equal(t, 1.0, AuthorityBoost("NOPE"))
}

func legislationFixture() []models.LegislationDocument {
	sub := "2"
	return []models.LegislationDocument{{
		Act: models.Act{Name: "Family Law Act 1975", Citation: "Family Law Act 1975 (Cth)"},
		Sections: []models.LegislationSection{
			{
				Section:   "60CC",
				Title:     "How a court determines what is in a child's best interests",
				LegalTest: "best interests of the child",
				Keywords:  []string{"parenting", "best interests"},
			},
			{
				Section:   "79",
				Title:     "Alteration of property interests",
				LegalTest: "just and equitable",
				Keywords:  []string{"property", "superannuation"},
			},
			{
				Section:    "75",
				Subsection: &sub,
				Title:      "Matters to be taken into consideration",
				LegalTest:  "future needs",
				Keywords:   []string{"spousal maintenance"},
			},
			{
				Section:   "114",
				Title:     "Injunctions",
				LegalTest: "protection",
				Keywords:  []string{"injunction"},
			},
		},
	}}
}

func TestFindRelevantSections(t *testing.T) {
	facts := "We are dividing property and superannuation; is the outcome just and equitable?"

	ranked := FindRelevantSections(facts, legislationFixture())

	require.Len(t, ranked, 1)
	assert.Equal(t, "79", ranked[0].Section)
	// two keywords, "just" and "equitable" from the legal test, "property" from the title
	assert.Equal(t, 2*10+2*5+3, ranked[0].Score)
	assert.Equal(t, "Family Law Act 1975", ranked[0].Act)
}

func TestFindRelevantSections_OrderAndCap(t *testing.T) {
	docs := []models.LegislationDocument{{Act: models.Act{Name: "Test Act 2000"}}}
	for _, s := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		docs[0].Sections = append(docs[0].Sections, models.LegislationSection{Section: s, Keywords: []string{"custody"}})
	}
	docs[0].Sections[6].Keywords = []string{"custody", "relocation"}

	ranked := FindRelevantSections("custody and relocation", docs)

	require.Len(t, ranked, DefaultMaxSections)
	assert.Equal(t, "7", ranked[0].Section)
	assert.Equal(t, 20, ranked[0].Score)
	assert.Equal(t, []string{"7", "1", "2", "3", "4"}, sectionNames(ranked))
}

func TestFindRelevantSections_NoMatches(t *testing.T) {
	assert.Empty(t, FindRelevantSections("a question about the weather", legislationFixture()))
	assert.Empty(t, FindRelevantSections("property", nil))
}

func sectionNames(ranked []models.RankedSection) []string {
	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Section)
	}
	return names
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("There was DOMESTIC violence, then the divorce. Custody of the children is disputed.")
	assert.Equal(t, []string{"custody", "children", "child", "divorce", "domestic violence"}, got)

	assert.Empty(t, ExtractKeywords("nothing legal here"))
	assert.NotNil(t, ExtractKeywords(""))
}
