package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thomasandersen77/candidate-match/internal/ai"
	"github.com/thomasandersen77/candidate-match/internal/artifact"
	"github.com/thomasandersen77/candidate-match/internal/config"
	"github.com/thomasandersen77/candidate-match/internal/db"
	"github.com/thomasandersen77/candidate-match/internal/logger"
	"github.com/thomasandersen77/candidate-match/internal/match"
	"github.com/thomasandersen77/candidate-match/internal/skills"
)

// app holds the wired service graph.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *db.DB
	matches *match.Service

	closeAI func() error
}

// newApp wires configuration, logging, database, AI client, and the
// matching orchestrator.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	ranker, closeAI, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, log, ai.ClientOptions{
		StrongModel: cfg.StrongModel,
		FastModel:   cfg.FastModel,
		Timeout:     cfg.RankTimeout,
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	uploader := artifact.NewResumableUploader(cfg.UploadBaseURL, cfg.GeminiAPIKey, cfg.UploadTimeout)
	cache := artifact.NewCache(database, uploader, log)
	extractor := skills.NewExtractor(skills.NewDefaultCatalog())

	matches := match.NewService(
		database,
		database,
		database,
		cache,
		ranker,
		database,
		extractor,
		log,
		match.Params{
			PoolLimit:     cfg.PoolLimit,
			MinCandidates: cfg.MinCandidates,
			BatchSize:     cfg.BatchSize,
			Workers:       cfg.Workers,
		},
	)

	return &app{
		cfg:     cfg,
		log:     log,
		db:      database,
		matches: matches,
		closeAI: closeAI,
	}, nil
}

func (a *app) close() {
	if a.closeAI != nil {
		if err := a.closeAI(); err != nil {
			a.log.Warn("failed to close AI client", zap.Error(err))
		}
	}
	a.db.Close()
	_ = a.log.Sync()
}
