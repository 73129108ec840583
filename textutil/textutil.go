// Package textutil holds the text normalisation shared by the analysis packages.
package textutil

import (
	"regexp"
	"strings"
)

var (
	yearPattern            = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	negatedChildrenPattern = regexp.MustCompile(`\b(?:no|without|zero)\s+(?:children|child|kids)\b|\bchildless\b`)
)

// Normalize lower-cases text and collapses runs of whitespace to one space.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ScrubNegatedChildren blanks phrases such as "no children" so that they do
// not trip child keyword tests. Input must already be normalized.
func ScrubNegatedChildren(normalized string) string {
	return negatedChildrenPattern.ReplaceAllString(normalized, " ")
}

// Years returns every four digit year in text, in order of appearance.
func Years(text string) []string {
	return yearPattern.FindAllString(text, -1)
}

// DistinctYears counts the distinct four digit years in text.
func DistinctYears(text string) int {
	seen := make(map[string]struct{})
	for _, y := range Years(text) {
		seen[y] = struct{}{}
	}
	return len(seen)
}

// ContainsAny reports whether s contains any of terms.
func ContainsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
