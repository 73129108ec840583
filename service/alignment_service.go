package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lexalign-backend/evidence"
	"lexalign-backend/metrics"
	"lexalign-backend/models"
	"lexalign-backend/ontology"
	"lexalign-backend/relevance"
	"lexalign-backend/structure"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyStory is returned when a request carries no text to analyse
var ErrEmptyStory = errors.New("story is empty")

// AlignmentService combines the factorizer, reasoner, gap detector,
// validator and rankers into one statutory alignment per story. Each piece is
// also callable on its own.
type AlignmentService struct {
	corpus     *CorpusService
	factorizer *structure.Factorizer
	detector   *evidence.Detector
	validator  *ontology.Validator

	significanceThreshold float64
	maxGaps               int
	maxCases              int

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// AlignmentServiceOption is a functional option for AlignmentService
type AlignmentServiceOption func(*AlignmentService)

// AlignmentWithCorpus sets the corpus service
func AlignmentWithCorpus(corpus *CorpusService) AlignmentServiceOption {
	return func(s *AlignmentService) {
		s.corpus = corpus
	}
}

// AlignmentWithValidator replaces the default ontology validator
func AlignmentWithValidator(v *ontology.Validator) AlignmentServiceOption {
	return func(s *AlignmentService) {
		s.validator = v
	}
}

// AlignmentWithGapPolicy sets which gaps are reported to the user
func AlignmentWithGapPolicy(threshold float64, maxGaps int) AlignmentServiceOption {
	return func(s *AlignmentService) {
		s.significanceThreshold = threshold
		s.maxGaps = maxGaps
	}
}

// AlignmentWithMaxCases sets how many similar cases are returned
func AlignmentWithMaxCases(n int) AlignmentServiceOption {
	return func(s *AlignmentService) {
		s.maxCases = n
	}
}

// AlignmentWithLogger sets the logger
func AlignmentWithLogger(logger *zap.Logger) AlignmentServiceOption {
	return func(s *AlignmentService) {
		s.logger = logger
	}
}

// AlignmentWithMetrics sets the metrics collectors
func AlignmentWithMetrics(m *metrics.Metrics) AlignmentServiceOption {
	return func(s *AlignmentService) {
		s.metrics = m
	}
}

// NewAlignmentService creates a new alignment service
func NewAlignmentService(opts ...AlignmentServiceOption) *AlignmentService {
	s := &AlignmentService{
		factorizer:            structure.NewFactorizer(),
		detector:              evidence.NewDetector(),
		significanceThreshold: evidence.DefaultSignificanceThreshold,
		maxGaps:               evidence.DefaultMaxGaps,
		maxCases:              relevance.DefaultMaxCases,
		logger:                zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = ontology.MustNewValidator(ontology.ValidatorWithLogger(s.logger))
	}
	if s.corpus == nil {
		s.corpus = NewCorpusService(CorpusWithLogger(s.logger))
	}
	return s
}

// corpusOrEmpty returns the loaded corpus, or an empty one when the source
// fails. Every analysis works on an empty corpus.
func (s *AlignmentService) corpusOrEmpty(ctx context.Context) *CorpusView {
	view, err := s.corpus.View(ctx)
	if err != nil {
		s.logger.Warn("continuing with an empty corpus", zap.Error(err))
		return &CorpusView{
			Corpus:   &models.Corpus{},
			Cases:    []models.CaseRecord{},
			Reasoner: s.corpus.Reasoner(),
		}
	}
	return view
}

// AlignRequest represents a request for a statutory alignment
type AlignRequest struct {
	Story string
}

// Align runs every analysis over the story and assembles the composite
// response
func (s *AlignmentService) Align(ctx context.Context, req AlignRequest) (*models.StatutoryAlignment, error) {
	if strings.TrimSpace(req.Story) == "" {
		return nil, ErrEmptyStory
	}

	view := s.corpusOrEmpty(ctx)
	keywords := relevance.ExtractKeywords(req.Story)
	validation := s.validator.VerifyNoHallucination(req.Story)
	s.metrics.RecordValidationIssues(len(validation.Issues))

	result := &models.StatutoryAlignment{
		RequestID:       uuid.New(),
		MissingEvidence: s.missingEvidence(req.Story),
		Prediction:      view.Reasoner.PredictOutcome(req.Story),
		Validation: models.AlignmentValidation{
			Valid:           validation.Valid,
			Issues:          validation.Issues,
			ConfidenceScore: validation.Confidence,
		},
		ApplicableLaw:      relevance.FindRelevantSections(req.Story, view.Corpus.Legislation),
		SimilarCases:       relevance.RankCases(view.Cases, keywords, s.maxCases),
		KeywordsIdentified: keywords,
	}

	s.logger.Debug("alignment built",
		zap.String("request_id", result.RequestID.String()),
		zap.String("evidence_status", result.MissingEvidence.Status),
		zap.Int("keywords", len(keywords)),
		zap.Int("similar_cases", len(result.SimilarCases)),
		zap.Int("applicable_sections", len(result.ApplicableLaw)),
	)
	return result, nil
}

func (s *AlignmentService) missingEvidence(story string) models.MissingEvidence {
	caseType := s.detector.ClassifyCaseType(story)
	gaps := evidence.Significant(s.detector.DetectGaps(story), s.significanceThreshold, s.maxGaps)

	missing := models.MissingEvidence{
		Status:   models.EvidenceComplete,
		CaseType: string(caseType),
	}
	if len(gaps) == 0 {
		return missing
	}

	for _, g := range gaps {
		s.metrics.RecordGap(g.Element)
	}
	recommendation := fmt.Sprintf("Before relying on this analysis, ask: %s", gaps[0].SuggestedQuery)
	missing.Status = models.EvidenceIncomplete
	missing.Gaps = gaps
	missing.Recommendation = &recommendation
	return missing
}

// FactorizeResult represents the structural fingerprint of a text
type FactorizeResult struct {
	Structure models.CaseStructure `json:"structure"`
	Facts     models.CaseFacts     `json:"facts"`
}

// Factorize reduces text to its structural fingerprint
func (s *AlignmentService) Factorize(text string) FactorizeResult {
	st, facts := s.factorizer.Factorize(text)
	return FactorizeResult{Structure: st, Facts: facts}
}

// PrecedentsRequest represents a request for structural precedents
type PrecedentsRequest struct {
	Story string
	TopK  int
}

// PrecedentsResult represents ranked precedents and the outcome estimate
type PrecedentsResult struct {
	Matches    []models.StructuralMatch `json:"matches"`
	Prediction models.Prediction        `json:"prediction"`
}

// FindPrecedents ranks loaded precedents against the story
func (s *AlignmentService) FindPrecedents(ctx context.Context, req PrecedentsRequest) (*PrecedentsResult, error) {
	if strings.TrimSpace(req.Story) == "" {
		return nil, ErrEmptyStory
	}
	reasoner := s.corpusOrEmpty(ctx).Reasoner
	return &PrecedentsResult{
		Matches:    reasoner.FindStructuralPrecedents(req.Story, req.TopK),
		Prediction: reasoner.PredictOutcome(req.Story),
	}, nil
}

// GapsResult represents the case type and all gaps of a narrative
type GapsResult struct {
	CaseType evidence.CaseType    `json:"case_type"`
	Gaps     []models.EvidenceGap `json:"gaps"`
}

// DetectGaps lists every missing element, most valuable first. No
// significance filtering is applied.
func (s *AlignmentService) DetectGaps(text string) GapsResult {
	return GapsResult{
		CaseType: s.detector.ClassifyCaseType(text),
		Gaps:     s.detector.DetectGaps(text),
	}
}

// Validate checks the concepts asserted in text against the ontology
func (s *AlignmentService) Validate(text string) models.ValidationResult {
	result := s.validator.VerifyNoHallucination(text)
	s.metrics.RecordValidationIssues(len(result.Issues))
	return result
}

// Keywords returns the vocabulary terms found in text
func (s *AlignmentService) Keywords(text string) []string {
	return relevance.ExtractKeywords(text)
}

// RankCases ranks loaded cases against keywords. A limit of 0 uses the
// configured maximum.
func (s *AlignmentService) RankCases(ctx context.Context, keywords []string, limit int) []models.RankedCase {
	if limit <= 0 {
		limit = s.maxCases
	}
	return relevance.RankCases(s.corpusOrEmpty(ctx).Cases, keywords, limit)
}

// RankSections ranks loaded legislation sections against the facts
func (s *AlignmentService) RankSections(ctx context.Context, facts string) []models.RankedSection {
	return relevance.FindRelevantSections(facts, s.corpusOrEmpty(ctx).Corpus.Legislation)
}
