package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lexalign-backend/config"
	"lexalign-backend/logging"
	"lexalign-backend/models"
	"lexalign-backend/relevance"
	"lexalign-backend/repository"
	"lexalign-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// corpusStore is the part of the case repository the importer writes to
type corpusStore interface {
	UpsertCase(ctx context.Context, rec models.CaseRecord, kind models.RecordKind) error
	ReplaceLegislation(ctx context.Context, doc models.LegislationDocument) error
}

// fileStats counts what one file contributed
type fileStats struct {
	kinds    map[models.RecordKind]int
	sections int
	skipped  int
	failed   int
}

func newFileStats() *fileStats {
	return &fileStats{kinds: map[models.RecordKind]int{}}
}

func main() {
	dir := flag.String("dir", "./corpus", "directory of .jsonl case files, .json legislation files and .txt case texts")
	configPath := flag.String("config", os.Getenv("LEXALIGN_CONFIG"), "optional YAML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Verify tables exist
	var tableExists bool
	err = pool.QueryRow(ctx, "SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'case_records')").Scan(&tableExists)
	if err != nil {
		logger.Fatal("failed to check table existence", zap.Error(err))
	}
	if !tableExists {
		logger.Fatal("case_records table does not exist, run cmd/create-schema first")
	}

	repo := repository.NewCaseRepository(pool)

	files, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("failed to read corpus directory", zap.String("dir", *dir), zap.Error(err))
	}

	total := newFileStats()
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		path := filepath.Join(*dir, file.Name())
		stats, err := importFile(ctx, repo, path, logger)
		if err != nil {
			logger.Error("failed to import file", zap.String("file", file.Name()), zap.Error(err))
			continue
		}
		if stats == nil {
			logger.Debug("skipping unsupported file", zap.String("file", file.Name()))
			continue
		}
		total.add(stats)
		logger.Info("imported file",
			zap.String("file", file.Name()),
			zap.Any("kinds", stats.kinds),
			zap.Int("sections", stats.sections),
			zap.Int("skipped", stats.skipped),
			zap.Int("failed", stats.failed),
		)
	}

	cases, sections, err := repo.Counts(ctx)
	if err != nil {
		logger.Fatal("failed to count corpus", zap.Error(err))
	}
	fmt.Printf("\n✅ Import complete: %d case records, %d legislation sections stored\n", cases, sections)
	for kind, n := range total.kinds {
		fmt.Printf("   %-18s %d\n", kind, n)
	}
	if total.skipped > 0 || total.failed > 0 {
		fmt.Printf("   skipped lines: %d, failed writes: %d\n", total.skipped, total.failed)
	}
}

func (s *fileStats) add(o *fileStats) {
	for k, n := range o.kinds {
		s.kinds[k] += n
	}
	s.sections += o.sections
	s.skipped += o.skipped
	s.failed += o.failed
}

// importFile stores the records of one file. Unsupported extensions return
// nil stats and no error.
func importFile(ctx context.Context, store corpusStore, path string, logger *zap.Logger) (*fileStats, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jsonl" && ext != ".json" && ext != ".txt" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stats := newFileStats()
	switch ext {
	case ".jsonl":
		cases, skipped, err := storage.DecodeCases(f, logger)
		if err != nil {
			return nil, err
		}
		stats.skipped = skipped
		for _, rec := range cases {
			upsertCase(ctx, store, rec, stats, logger)
		}
	case ".json":
		docs, err := storage.DecodeLegislation(f)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if doc.Act.Name == "" {
				stats.skipped++
				logger.Warn("skipping legislation without act name", zap.String("file", path))
				continue
			}
			if err := store.ReplaceLegislation(ctx, doc); err != nil {
				stats.failed++
				logger.Error("failed to store legislation", zap.String("act", doc.Act.Name), zap.Error(err))
				continue
			}
			stats.sections += len(doc.Sections)
		}
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		rec, ok := caseFromText(string(content))
		if !ok {
			stats.skipped++
			logger.Warn("skipping empty case text", zap.String("file", path))
			return stats, nil
		}
		upsertCase(ctx, store, rec, stats, logger)
	}
	return stats, nil
}

func upsertCase(ctx context.Context, store corpusStore, rec models.CaseRecord, stats *fileStats, logger *zap.Logger) {
	kind := relevance.ClassifyRecord(rec)
	if err := store.UpsertCase(ctx, rec, kind); err != nil {
		stats.failed++
		logger.Error("failed to store case record", zap.String("citation", rec.Citation), zap.Error(err))
		return
	}
	stats.kinds[kind]++
}

// caseFromText builds a record from a plain judgment file whose first
// non-blank line is the citation
func caseFromText(content string) (models.CaseRecord, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.CaseRecord{}, false
	}
	citation, _, _ := strings.Cut(content, "\n")
	return models.CaseRecord{
		Citation: strings.TrimSpace(citation),
		Text:     content,
		Type:     "decision",
	}, true
}
