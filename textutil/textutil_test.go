package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "the husband was a breadwinner", Normalize("  The  HUSBAND\twas a\nBreadwinner "))
	assert.Equal(t, "", Normalize(""))
}

func TestScrubNegatedChildren(t *testing.T) {
	assert.NotContains(t, ScrubNegatedChildren("married ten years, no children"), "child")
	assert.NotContains(t, ScrubNegatedChildren("a childless couple"), "child")
	assert.Contains(t, ScrubNegatedChildren("two children aged 5 and 8"), "children")
}

func TestDistinctYears(t *testing.T) {
	assert.Equal(t, 2, DistinctYears("married in 2010, separated 2019, divorced 2019"))
	assert.Equal(t, 0, DistinctYears("the children are 5 and 8, house worth $500,000"))
	assert.Equal(t, []string{"1998", "2004"}, Years("from 1998 to 2004"))
}
