package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexalign-backend/config"
	"lexalign-backend/handlers"
	"lexalign-backend/logging"
	"lexalign-backend/metrics"
	"lexalign-backend/repository"
	"lexalign-backend/service"
	"lexalign-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load(os.Getenv("LEXALIGN_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}
	logger.Info("storage initialized", zap.String("type", string(cfg.Storage.Type)))

	// Initialize corpus source
	var source service.Source
	switch cfg.Corpus.Source {
	case config.CorpusSourcePostgres:
		db, err := initPostgres(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal("failed to initialize postgres", zap.Error(err))
		}
		defer db.Close()
		logger.Info("postgres connection established")
		source = repository.NewCaseRepository(db)
	default:
		source = storage.NewBlobCorpusSource(fileStorage, cfg.Corpus.CasesKey, cfg.Corpus.LegislationKey, logger)
	}

	// Initialize services
	corpusOpts := []service.CorpusServiceOption{
		service.CorpusWithSource(source),
		service.CorpusWithPrecedentLimit(cfg.Corpus.PrecedentLimit),
		service.CorpusWithLogger(logger),
		service.CorpusWithMetrics(m),
	}
	// A postgres corpus is filled by import-corpus, so uploads stay disabled
	if cfg.Corpus.Source == config.CorpusSourceStorage {
		corpusOpts = append(corpusOpts, service.CorpusWithUploadStore(fileStorage, cfg.Corpus.CasesKey, cfg.Corpus.LegislationKey))
	}
	corpusService := service.NewCorpusService(corpusOpts...)

	alignmentService := service.NewAlignmentService(
		service.AlignmentWithCorpus(corpusService),
		service.AlignmentWithGapPolicy(cfg.Evidence.SignificanceThreshold, cfg.Evidence.MaxGaps),
		service.AlignmentWithMaxCases(cfg.Ranking.MaxCases),
		service.AlignmentWithLogger(logger),
		service.AlignmentWithMetrics(m),
	)

	// Warm the corpus so the first request does not pay for the load
	if _, _, err := corpusService.Corpus(ctx); err != nil {
		logger.Warn("corpus not loaded at startup; analyses run on an empty corpus until it loads", zap.Error(err))
	}

	// Initialize handlers
	alignmentHandler := handlers.NewAlignmentHandler(alignmentService, logger)
	corpusHandler := handlers.NewCorpusHandler(corpusService, handlers.DefaultMaxUploadSize, logger)

	// Setup Gin router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(logger), m.Middleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"corpus_loaded": corpusService.Loaded(),
		})
	})
	r.GET("/metrics", m.Handler())

	// API routes
	handlers.RegisterRoutes(r.Group("/api"), alignmentHandler, corpusHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
