package evidence

import (
	"testing"

	"lexalign-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elementNames(gaps []models.EvidenceGap) []string {
	names := make([]string, 0, len(gaps))
	for _, g := range gaps {
		names = append(names, g.Element)
	}
	return names
}

func TestClassifyCaseType(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		text string
		want CaseType
	}{
		{"the children are 5 and 8", CaseTypeParenting},
		{"we are arguing about custody", CaseTypeParenting},
		{"we own a house and have superannuation", CaseTypeProperty},
		{"custody of the child and sale of the house", CaseTypeMixed},
		{"no children, but a house", CaseTypeProperty},
		{"", CaseTypeProperty},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, d.ClassifyCaseType(tt.text))
		})
	}
}

func TestDetectGaps_ParentingStory(t *testing.T) {
	gaps := NewDetector().DetectGaps("the children are 5 and 8")

	names := elementNames(gaps)
	assert.NotContains(t, names, "children_details")
	assert.Equal(t, []string{"safety_risk", "current_arrangements", "relationship_quality"}, names)

	require.NotEmpty(t, gaps)
	assert.Equal(t, 1.0, gaps[0].Importance)
	assert.InDelta(t, 0.85, gaps[0].EVI, 1e-9)
	assert.NotEmpty(t, gaps[0].SuggestedQuery)
	assert.NotEmpty(t, gaps[0].Reason)
}

func TestDetectGaps_SortedDescending(t *testing.T) {
	gaps := NewDetector().DetectGaps("custody of our child and who keeps the house")
	require.NotEmpty(t, gaps)
	for i := 1; i < len(gaps); i++ {
		assert.GreaterOrEqual(t, gaps[i-1].EVI, gaps[i].EVI)
	}
}

func TestDetectGaps_MixedUsesBothChecklists(t *testing.T) {
	gaps := NewDetector().DetectGaps("custody of the child and the house")
	names := elementNames(gaps)

	assert.Contains(t, names, "marriage_date")
	assert.Contains(t, names, "safety_risk")
	assert.NotContains(t, names, "asset_pool")
	assert.NotContains(t, names, "current_arrangements")
}

func TestDetectGaps_CompleteNarrative(t *testing.T) {
	text := "We married in 2005 and separated in 2020. The asset pool is a house and superannuation. " +
		"I contributed as homemaker; he earned the income. My health affects my earning capacity."
	assert.Empty(t, NewDetector().DetectGaps(text))
}

func TestDetectGaps_TimelineReducesEVI(t *testing.T) {
	d := NewDetector()
	sparse := d.DetectGaps("we own a house")
	dense := d.DetectGaps("we own a house, events in 2001 2002 2003 2004 2005")

	require.Equal(t, elementNames(sparse), elementNames(dense))
	for i := range sparse {
		assert.Greater(t, sparse[i].EVI, dense[i].EVI)
		assert.InDelta(t, sparse[i].EVI*0.5, dense[i].EVI, 1e-9)
	}
}

func TestTimelineCoverage(t *testing.T) {
	assert.Equal(t, 0.0, TimelineCoverage("no years here"))
	assert.InDelta(t, 0.4, TimelineCoverage("2010 and 2019 and 2019 again"), 1e-9)
	assert.Equal(t, 1.0, TimelineCoverage("2001 2002 2003 2004 2005 2006 2007"))
}

func TestEVI_MonotoneInCoverage(t *testing.T) {
	importances := []float64{0.1, 0.5, 0.9, 1.0}
	accessibilities := []float64{0.2, 0.6, 1.0}
	for _, imp := range importances {
		for _, acc := range accessibilities {
			prev := EVI(imp, acc, 1.0)
			for coverage := 0.8; coverage >= 0; coverage -= 0.2 {
				cur := EVI(imp, acc, coverage)
				assert.GreaterOrEqual(t, cur, prev, "imp=%v acc=%v coverage=%v", imp, acc, coverage)
				assert.LessOrEqual(t, cur, imp*acc+1e-12)
				prev = cur
			}
		}
	}
}

func TestSignificant(t *testing.T) {
	gaps := []models.EvidenceGap{
		{Element: "a", EVI: 0.9},
		{Element: "b", EVI: 0.8},
		{Element: "c", EVI: 0.7},
		{Element: "d", EVI: 0.6},
		{Element: "e", EVI: 0.5},
	}

	assert.Equal(t, []string{"a", "b", "c"}, elementNames(Significant(gaps, DefaultSignificanceThreshold, DefaultMaxGaps)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, elementNames(Significant(gaps, DefaultSignificanceThreshold, 0)))
	assert.Empty(t, Significant(nil, DefaultSignificanceThreshold, DefaultMaxGaps))
}
