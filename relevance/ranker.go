// Package relevance ranks case law by keyword hits weighted by court
// authority, and statute sections by keyword, legal test and title overlap.
package relevance

import (
	"sort"
	"strings"

	"lexalign-backend/models"
)

// Scoring constants
const (
	maxHitsPerKeyword = 10

	sectionKeywordPoints   = 10
	sectionLegalTestPoints = 5
	sectionTitlePoints     = 3
	minScoredWordLength    = 4

	DefaultMaxCases    = 5
	DefaultMaxSections = 5
)

// CaseScore is the breakdown of a case's relevance
type CaseScore struct {
	Base   float64
	Court  string
	Weight int
	Score  float64
}

// ScoreCaseRelevance counts keyword occurrences in the case text, capping
// each keyword at ten hits, and multiplies the total by the authority boost
// of the issuing court. No hits means a score of 0 whatever the court.
func ScoreCaseRelevance(c models.CaseRecord, keywords []string) CaseScore {
	text := strings.ToLower(c.Text)
	base := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		base += min(strings.Count(text, kw), maxHitsPerKeyword)
	}

	court := CourtCode(c.Citation)
	score := CaseScore{Base: float64(base), Court: court, Weight: CourtWeight(court)}
	if base > 0 {
		score.Score = score.Base * AuthorityBoost(court)
	}
	return score
}

// RankCases scores every case record against keywords and returns the top
// limit with a positive score, highest first. Legislation records are
// skipped. Equal scores keep corpus order.
func RankCases(cases []models.CaseRecord, keywords []string, limit int) []models.RankedCase {
	if limit <= 0 {
		limit = DefaultMaxCases
	}

	ranked := []models.RankedCase{}
	for _, c := range cases {
		kind := ClassifyRecord(c)
		if !kind.IsCase() {
			continue
		}
		s := ScoreCaseRelevance(c, keywords)
		if s.Score <= 0 {
			continue
		}
		ranked = append(ranked, models.RankedCase{
			Citation:     c.Citation,
			Jurisdiction: c.Jurisdiction,
			Date:         c.Date,
			Court:        s.Court,
			Kind:         kind,
			Score:        s.Score,
			BaseScore:    s.Base,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// ScoreSection scores one section against lower-cased facts.
func ScoreSection(facts string, s models.LegislationSection) int {
	score := 0
	for _, kw := range s.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(facts, kw) {
			score += sectionKeywordPoints
		}
	}
	score += sectionLegalTestPoints * wordHits(facts, s.LegalTest)
	score += sectionTitlePoints * wordHits(facts, s.Title)
	return score
}

func wordHits(facts, text string) int {
	hits := 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:()'\"")
		if len(w) >= minScoredWordLength && strings.Contains(facts, w) {
			hits++
		}
	}
	return hits
}

// FindRelevantSections ranks every section of the given acts against the
// facts and returns at most five with a positive score, highest first.
// Equal scores keep document order.
func FindRelevantSections(facts string, legislation []models.LegislationDocument) []models.RankedSection {
	lower := strings.ToLower(facts)

	ranked := []models.RankedSection{}
	for _, doc := range legislation {
		for _, s := range doc.Sections {
			score := ScoreSection(lower, s)
			if score == 0 {
				continue
			}
			ranked = append(ranked, models.RankedSection{
				Act:        doc.Act.Name,
				Section:    s.Section,
				Subsection: s.Subsection,
				Title:      s.Title,
				LegalTest:  s.LegalTest,
				Summary:    s.Summary,
				Score:      score,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > DefaultMaxSections {
		ranked = ranked[:DefaultMaxSections]
	}
	return ranked
}
