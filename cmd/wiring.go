package cmd

import (
	"context"
	"fmt"

	"event-catalog/core/cache"
	"event-catalog/core/config"
	"event-catalog/core/database"
	"event-catalog/core/logger"
	"event-catalog/core/storage"
	"event-catalog/feature/events/parser"
	"event-catalog/feature/events/repository"
	feedsync "event-catalog/feature/sync"
	"event-catalog/feature/sync/provider"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bootstrap loads the configuration and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// openArchive returns the feed archive, or nil when archiving is disabled.
func openArchive(ctx context.Context, cfg *config.Config, l *zap.Logger) (*storage.Archive, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	archive := storage.NewArchive(client, cfg.Storage.Bucket, l)
	if err := archive.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return archive, nil
}

// newRepository builds the reconciliation engine for db.
func newRepository(cfg *config.Config, db *gorm.DB, l *zap.Logger) *repository.Repository {
	return repository.New(db, l, repository.WithBatchSize(cfg.Sync.BatchSize))
}

// newSyncService wires the orchestrator. A failing archive is logged and skipped.
func newSyncService(ctx context.Context, cfg *config.Config, repo *repository.Repository, c *cache.Cache, l *zap.Logger) *feedsync.Service {
	var archiver feedsync.Archiver
	archive, err := openArchive(ctx, cfg, l)
	switch {
	case err != nil:
		l.Warn("Feed archive unavailable, continuing without it", zap.Error(err))
	case archive != nil:
		archiver = archive
	}

	var purger feedsync.Purger
	if c != nil {
		purger = c
	}

	return feedsync.NewService(
		cfg.AllProviders(),
		provider.NewClient(l),
		parser.New(l),
		repo,
		archiver,
		purger,
		l,
	)
}

// connectStore opens the database.
func connectStore(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
