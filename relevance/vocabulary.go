package relevance

import (
	"strings"

	"lexalign-backend/textutil"
)

// Vocabulary is the ordered list of family law terms recognised in stories.
// ExtractKeywords returns matches in this order.
var Vocabulary = []string{
	// parenting
	"custody", "parenting", "children", "child", "parental responsibility",
	"live with", "spend time", "best interests", "relocation", "child support",
	// property
	"property", "asset", "superannuation", "house", "mortgage", "business",
	"trust", "contributions", "property settlement", "spousal maintenance",
	// relationship
	"divorce", "separation", "marriage", "de facto",
	// violence and safety
	"family violence", "domestic violence", "abuse", "safety",
	"intervention order", "protection order",
	// procedure
	"consent orders", "interim orders", "mediation", "family dispute resolution",
	"affidavit", "appeal", "contravention",
}

// ExtractKeywords returns the vocabulary terms that occur in text.
func ExtractKeywords(text string) []string {
	normalized := textutil.Normalize(text)
	keywords := []string{}
	for _, term := range Vocabulary {
		if strings.Contains(normalized, term) {
			keywords = append(keywords, term)
		}
	}
	return keywords
}
