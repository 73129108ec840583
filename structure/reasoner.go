package structure

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"lexalign-backend/models"

	"go.uber.org/zap"
)

// Precedent is a factorized corpus case held by the Reasoner
type Precedent struct {
	Citation  string
	Structure models.CaseStructure
	Outcome   *string
	Text      string
}

// Reasoner ranks stored precedents by structural similarity to a new
// situation. The precedent set is an immutable snapshot that LoadPrecedents
// replaces atomically, so queries never observe a partially built set.
type Reasoner struct {
	factorizer *Factorizer
	logger     *zap.Logger
	precedents atomic.Pointer[[]Precedent]
}

// ReasonerOption is a functional option for Reasoner
type ReasonerOption func(*Reasoner)

// ReasonerWithFactorizer sets the factorizer
func ReasonerWithFactorizer(f *Factorizer) ReasonerOption {
	return func(r *Reasoner) {
		r.factorizer = f
	}
}

// ReasonerWithLogger sets the logger
func ReasonerWithLogger(logger *zap.Logger) ReasonerOption {
	return func(r *Reasoner) {
		r.logger = logger
	}
}

// NewReasoner creates a reasoner with an empty precedent set
func NewReasoner(opts ...ReasonerOption) *Reasoner {
	r := &Reasoner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.factorizer == nil {
		r.factorizer = NewFactorizer()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	empty := []Precedent{}
	r.precedents.Store(&empty)
	return r
}

// LoadPrecedents factorizes each case once and replaces the precedent set.
// It returns the number of precedents stored.
func (r *Reasoner) LoadPrecedents(cases []models.CaseRecord) int {
	set := make([]Precedent, 0, len(cases))
	for _, c := range cases {
		s, _ := r.factorizer.Factorize(c.Text)
		outcome := c.Outcome
		if outcome == nil {
			outcome = extractOutcome(c.Text)
		}
		set = append(set, Precedent{
			Citation:  c.Citation,
			Structure: s,
			Outcome:   outcome,
			Text:      c.Text,
		})
	}
	r.precedents.Store(&set)
	r.logger.Info("precedents loaded", zap.Int("count", len(set)))
	return len(set)
}

// Precedents returns the current snapshot. Callers must not modify it.
func (r *Reasoner) Precedents() []Precedent {
	return *r.precedents.Load()
}

// ComputeSimilarity scores two structures in [0,1] as a weighted sum of
// per-dimension agreement. It is symmetric and ComputeSimilarity(a, a) == 1.
func ComputeSimilarity(a, b models.CaseStructure) float64 {
	score := 0.0
	if a.PartyPattern == b.PartyPattern {
		score += weightPartyPattern
	}
	score += weightIssueTypes * issueJaccard(a.IssueTypes, b.IssueTypes)
	if a.TemporalPattern == b.TemporalPattern {
		score += weightTemporalPattern
	}
	if a.AssetComplexity == b.AssetComplexity {
		score += weightAssetComplexity
	}
	if childFactorsMatch(a.ChildFactors, b.ChildFactors) {
		score += weightChildFactors
	}
	return math.Max(0, math.Min(1, score))
}

// issueJaccard treats two empty issue sets as identical.
func issueJaccard(a, b []models.IssueType) float64 {
	set := make(map[models.IssueType]int)
	for _, it := range a {
		set[it] |= 1
	}
	for _, it := range b {
		set[it] |= 2
	}
	if len(set) == 0 {
		return 1
	}
	intersection := 0
	for _, mask := range set {
		if mask == 3 {
			intersection++
		}
	}
	return float64(intersection) / float64(len(set))
}

func childFactorsMatch(a, b models.ChildFactors) bool {
	if a.Count == 0 && b.Count == 0 {
		return true
	}
	return a.Count > 0 && b.Count > 0 && a.AgeRange == b.AgeRange
}

// FindStructuralPrecedents returns the topK precedents most similar to story,
// highest first. Ties keep precedent load order. topK <= 0 means 5.
func (r *Reasoner) FindStructuralPrecedents(story string, topK int) []models.StructuralMatch {
	if topK <= 0 {
		topK = defaultTopK
	}
	target, _ := r.factorizer.Factorize(story)
	precedents := r.Precedents()

	matches := make([]models.StructuralMatch, 0, len(precedents))
	for _, p := range precedents {
		sim := ComputeSimilarity(target, p.Structure)
		matches = append(matches, models.StructuralMatch{
			Citation:   p.Citation,
			Similarity: sim,
			Outcome:    p.Outcome,
			Reasoning:  explainMatch(target, p.Structure),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

func explainMatch(a, b models.CaseStructure) string {
	var shared []string
	if a.PartyPattern == b.PartyPattern {
		shared = append(shared, "party pattern ("+string(a.PartyPattern)+")")
	}
	if issueJaccard(a.IssueTypes, b.IssueTypes) > 0 {
		shared = append(shared, "issue types")
	}
	if a.TemporalPattern == b.TemporalPattern {
		shared = append(shared, "relationship length ("+string(a.TemporalPattern)+")")
	}
	if a.AssetComplexity == b.AssetComplexity {
		shared = append(shared, "asset complexity ("+string(a.AssetComplexity)+")")
	}
	if childFactorsMatch(a.ChildFactors, b.ChildFactors) {
		shared = append(shared, "child factors")
	}
	if len(shared) == 0 {
		return "No shared structural features"
	}
	return "Shares " + strings.Join(shared, ", ")
}

// PredictOutcome returns the outcome recorded for the single most similar
// precedent. This is a 1-nearest-neighbour heuristic: Confidence is that
// precedent's similarity score, not a probability.
func (r *Reasoner) PredictOutcome(story string) models.Prediction {
	matches := r.FindStructuralPrecedents(story, defaultTopK)
	if len(matches) == 0 {
		return models.Prediction{
			Confidence:           0,
			Reasoning:            "No precedents loaded for structural comparison",
			Method:               MethodNearestNeighbor,
			StructuralPrecedents: []models.StructuralMatch{},
		}
	}

	top := matches[0]
	outcome := top.Outcome
	if outcome == nil {
		placeholder := judicialDiscretionOutcome
		outcome = &placeholder
	}

	return models.Prediction{
		Outcome:    outcome,
		Confidence: top.Similarity,
		Reasoning: fmt.Sprintf(
			"Nearest structural precedent is %s (%.0f%% similar). Single nearest-neighbour comparison, not a calibrated probability.",
			top.Citation, top.Similarity*100,
		),
		Method:               MethodNearestNeighbor,
		StructuralPrecedents: matches,
	}
}
