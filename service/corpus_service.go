package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"lexalign-backend/metrics"
	"lexalign-backend/models"
	"lexalign-backend/relevance"
	"lexalign-backend/storage"
	"lexalign-backend/structure"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrCorpusUnavailable is returned when the corpus source cannot be loaded
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrUploadUnsupported is returned when no blob store is configured
	ErrUploadUnsupported = errors.New("corpus upload not supported by this source")
	// ErrUnknownCorpusKind is returned for an upload kind other than cases or legislation
	ErrUnknownCorpusKind = errors.New("unknown corpus kind")
	// ErrEmptyCorpus is returned when an upload holds no usable records
	ErrEmptyCorpus = errors.New("corpus file holds no usable records")
	// ErrInvalidCorpus is returned when an upload cannot be decoded
	ErrInvalidCorpus = errors.New("invalid corpus file")
)

// DefaultPrecedentLimit bounds how many cases are factorized into the
// precedent cache
const DefaultPrecedentLimit = 200

// Source provides corpus snapshots
type Source interface {
	Name() string
	Load(ctx context.Context) (*models.Corpus, error)
}

// CorpusKind names an uploadable corpus file
type CorpusKind string

const (
	CorpusKindCases       CorpusKind = "cases"
	CorpusKindLegislation CorpusKind = "legislation"
)

// snapshot is an immutable view of one load. Cases holds only records
// classified as case law; reasoner holds the precedents built from them.
type snapshot struct {
	corpus             *models.Corpus
	cases              []models.CaseRecord
	reasoner           *structure.Reasoner
	legislationRecords int
	precedents         int
}

// CorpusView is the corpus, its case law and the reasoner over its
// precedents, all taken from the same load
type CorpusView struct {
	Corpus   *models.Corpus
	Cases    []models.CaseRecord
	Reasoner *structure.Reasoner
}

// CorpusService loads the corpus at most once at a time and publishes each
// load, precedents included, as a new snapshot with a single pointer swap.
// Readers never see a partially built corpus.
type CorpusService struct {
	source         Source
	factorizer     *structure.Factorizer
	empty          *structure.Reasoner
	precedentLimit int

	store          storage.Storage
	casesKey       string
	legislationKey string

	logger  *zap.Logger
	metrics *metrics.Metrics

	group   singleflight.Group
	buildMu sync.Mutex
	current atomic.Pointer[snapshot]
}

// CorpusServiceOption is a functional option for CorpusService
type CorpusServiceOption func(*CorpusService)

// CorpusWithSource sets the corpus source
func CorpusWithSource(source Source) CorpusServiceOption {
	return func(s *CorpusService) {
		s.source = source
	}
}

// CorpusWithFactorizer sets the factorizer precedents are built with
func CorpusWithFactorizer(f *structure.Factorizer) CorpusServiceOption {
	return func(s *CorpusService) {
		s.factorizer = f
	}
}

// CorpusWithPrecedentLimit sets how many cases feed the precedent cache
func CorpusWithPrecedentLimit(limit int) CorpusServiceOption {
	return func(s *CorpusService) {
		s.precedentLimit = limit
	}
}

// CorpusWithUploadStore enables uploads, writing to the given keys of store
func CorpusWithUploadStore(store storage.Storage, casesKey, legislationKey string) CorpusServiceOption {
	return func(s *CorpusService) {
		s.store = store
		s.casesKey = casesKey
		s.legislationKey = legislationKey
	}
}

// CorpusWithLogger sets the logger
func CorpusWithLogger(logger *zap.Logger) CorpusServiceOption {
	return func(s *CorpusService) {
		s.logger = logger
	}
}

// CorpusWithMetrics sets the metrics collectors
func CorpusWithMetrics(m *metrics.Metrics) CorpusServiceOption {
	return func(s *CorpusService) {
		s.metrics = m
	}
}

// NewCorpusService creates a new corpus service
func NewCorpusService(opts ...CorpusServiceOption) *CorpusService {
	s := &CorpusService{
		precedentLimit: DefaultPrecedentLimit,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.factorizer == nil {
		s.factorizer = structure.NewFactorizer()
	}
	s.empty = s.newReasoner()
	return s
}

func (s *CorpusService) newReasoner() *structure.Reasoner {
	return structure.NewReasoner(
		structure.ReasonerWithFactorizer(s.factorizer),
		structure.ReasonerWithLogger(s.logger),
	)
}

// Reasoner returns the reasoner over the current precedents, or one with no
// precedents before the first load
func (s *CorpusService) Reasoner() *structure.Reasoner {
	if snap := s.current.Load(); snap != nil {
		return snap.reasoner
	}
	return s.empty
}

// Loaded reports whether a snapshot has been published
func (s *CorpusService) Loaded() bool {
	return s.current.Load() != nil
}

// Corpus returns the current snapshot, loading it on first use. Concurrent
// callers during a load share the same in-flight load. A failed load is not
// cached; the next call tries again.
func (s *CorpusService) Corpus(ctx context.Context) (*models.Corpus, []models.CaseRecord, error) {
	view, err := s.View(ctx)
	if err != nil {
		return nil, nil, err
	}
	return view.Corpus, view.Cases, nil
}

// View is Corpus with the matching reasoner
func (s *CorpusService) View(ctx context.Context) (*CorpusView, error) {
	snap := s.current.Load()
	if snap == nil {
		var err error
		if snap, err = s.load(ctx, false); err != nil {
			return nil, err
		}
	}
	return &CorpusView{Corpus: snap.corpus, Cases: snap.cases, Reasoner: snap.reasoner}, nil
}

// Reload loads the source again and publishes the result. The previous
// snapshot stays in place if the load fails.
func (s *CorpusService) Reload(ctx context.Context) (*models.CorpusStats, error) {
	if _, err := s.load(ctx, true); err != nil {
		return nil, err
	}
	stats := s.Stats()
	return &stats, nil
}

// load reads the source and publishes the result. Lazy callers share one
// in-flight load and take an already published snapshot instead of starting
// another. A forced load never joins a load in flight, since that load may
// have read the source before the caller changed it; it waits its turn and
// reads the source again.
func (s *CorpusService) load(ctx context.Context, force bool) (*snapshot, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no corpus source configured", ErrCorpusUnavailable)
	}

	// The load may be shared, so it must not die with the caller that started it.
	loadCtx := context.WithoutCancel(ctx)
	if force {
		return s.build(loadCtx, true)
	}
	v, err, _ := s.group.Do("corpus", func() (interface{}, error) {
		return s.build(loadCtx, false)
	})
	if err != nil {
		return nil, err
	}
	return v.(*snapshot), nil
}

// build runs one source load at a time so snapshots are published in the
// order their loads started
func (s *CorpusService) build(ctx context.Context, force bool) (*snapshot, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if snap := s.current.Load(); snap != nil && !force {
		return snap, nil
	}

	start := time.Now()
	corpus, err := s.source.Load(ctx)
	if err != nil {
		s.metrics.RecordCorpusLoad(metrics.CorpusLoad{Err: err, Duration: time.Since(start)})
		s.logger.Error("corpus load failed", zap.String("source", s.source.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}

	snap := &snapshot{corpus: corpus, cases: []models.CaseRecord{}}
	for _, rec := range corpus.Cases {
		if relevance.IsActualCase(rec) {
			snap.cases = append(snap.cases, rec)
		} else {
			snap.legislationRecords++
		}
	}

	precedents := snap.cases
	if len(precedents) > s.precedentLimit {
		precedents = precedents[:s.precedentLimit]
	}
	snap.reasoner = s.newReasoner()
	snap.precedents = snap.reasoner.LoadPrecedents(precedents)

	s.current.Store(snap)

	sections := countSections(corpus.Legislation)
	s.metrics.RecordCorpusLoad(metrics.CorpusLoad{
		Duration:    time.Since(start),
		Cases:       len(snap.cases),
		Legislation: snap.legislationRecords,
		Sections:    sections,
		Precedents:  snap.precedents,
		Skipped:     corpus.Skipped,
	})
	s.logger.Info("corpus loaded",
		zap.String("source", s.source.Name()),
		zap.Int("cases", len(snap.cases)),
		zap.Int("legislation_records", snap.legislationRecords),
		zap.Int("acts", len(corpus.Legislation)),
		zap.Int("sections", sections),
		zap.Int("precedents", snap.precedents),
		zap.Int("skipped", corpus.Skipped),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}

func countSections(docs []models.LegislationDocument) int {
	n := 0
	for _, d := range docs {
		n += len(d.Sections)
	}
	return n
}

// Stats describes the current snapshot. Before the first load only the
// source name is set.
func (s *CorpusService) Stats() models.CorpusStats {
	stats := models.CorpusStats{}
	if s.source != nil {
		stats.Source = s.source.Name()
	}
	snap := s.current.Load()
	if snap == nil {
		return stats
	}
	stats.Cases = len(snap.cases)
	stats.LegislationRecords = snap.legislationRecords
	stats.Acts = len(snap.corpus.Legislation)
	stats.Sections = countSections(snap.corpus.Legislation)
	stats.Precedents = snap.precedents
	stats.Skipped = snap.corpus.Skipped
	stats.LoadedAt = snap.corpus.LoadedAt
	return stats
}

// UploadRequest represents a corpus file upload
type UploadRequest struct {
	Kind     CorpusKind
	Filename string
	Data     []byte
}

// UploadResult represents the result of an upload
type UploadResult struct {
	ArchiveKey string             `json:"archive_key"`
	ActiveKey  string             `json:"active_key"`
	Records    int                `json:"records"`
	Skipped    int                `json:"skipped"`
	Stats      models.CorpusStats `json:"stats"`
}

// Upload validates a corpus file, archives it under a fresh key, makes it
// the active file of its kind and reloads the corpus.
func (s *CorpusService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if s.store == nil {
		return nil, ErrUploadUnsupported
	}

	result := &UploadResult{}
	switch req.Kind {
	case CorpusKindCases:
		cases, skipped, err := storage.DecodeCases(bytes.NewReader(req.Data), s.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
		}
		result.Records, result.Skipped, result.ActiveKey = len(cases), skipped, s.casesKey
	case CorpusKindLegislation:
		docs, err := storage.DecodeLegislation(bytes.NewReader(req.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCorpus, err)
		}
		result.Records, result.ActiveKey = countSections(docs), s.legislationKey
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCorpusKind, req.Kind)
	}
	if result.Records == 0 {
		return nil, ErrEmptyCorpus
	}
	if result.ActiveKey == "" {
		return nil, fmt.Errorf("%w: no key configured for %s", ErrUploadUnsupported, req.Kind)
	}

	archiveKey, err := s.store.Upload(ctx, uuid.New(), req.Filename, bytes.NewReader(req.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to archive upload: %w", err)
	}
	result.ArchiveKey = archiveKey

	if err := s.store.Put(ctx, result.ActiveKey, bytes.NewReader(req.Data)); err != nil {
		return nil, fmt.Errorf("failed to store corpus file: %w", err)
	}

	stats, err := s.Reload(ctx)
	if err != nil {
		return nil, err
	}
	result.Stats = *stats

	s.logger.Info("corpus file uploaded",
		zap.String("kind", string(req.Kind)),
		zap.String("archive_key", archiveKey),
		zap.Int("records", result.Records),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
