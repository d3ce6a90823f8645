package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-catalog/core/clock"
	"event-catalog/core/storage"
	"event-catalog/feature/events/models"
	"event-catalog/feature/events/repository"
	"event-catalog/feature/sync/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownProvider is returned when a provider name is not configured.
var ErrUnknownProvider = errors.New("unknown provider")

// Fetcher downloads a provider feed.
type Fetcher interface {
	Fetch(ctx context.Context, p provider.Config) ([]byte, error)
}

// Parser turns a feed into parsed events.
type Parser interface {
	Parse(document, providerName string) ([]models.ParsedEvent, error)
}

// Reconciler merges parsed events into the store.
type Reconciler interface {
	Upsert(ctx context.Context, events []models.ParsedEvent, providerFilter string) (repository.UpsertResult, error)
}

// Archiver keeps raw feeds.
type Archiver interface {
	Save(ctx context.Context, provider string, fetchedAt time.Time, document []byte) (string, error)
	Load(ctx context.Context, key string) ([]byte, error)
}

// Purger drops cached read results.
type Purger interface {
	Purge(ctx context.Context) error
}

// Result is the outcome of one provider sync.
type Result struct {
	RunID      string
	Provider   string
	ArchiveKey string
	Parsed     int
	Upsert     repository.UpsertResult
	Duration   time.Duration
	Err        error
}

// OK reports whether the provider was reconciled.
func (r Result) OK() bool {
	return r.Err == nil
}

// Service drives fetch, archive, parse, reconcile and cache purge for every provider.
type Service struct {
	providers []provider.Config
	fetcher   Fetcher
	parser    Parser
	repo      Reconciler
	archive   Archiver
	cache     Purger
	logger    *zap.Logger
	clock     clock.Clock
}

// NewService creates the orchestrator. archive and cache are optional.
func NewService(providers []provider.Config, fetcher Fetcher, parser Parser, repo Reconciler, archive Archiver, cache Purger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		providers: providers,
		fetcher:   fetcher,
		parser:    parser,
		repo:      repo,
		archive:   archive,
		cache:     cache,
		logger:    logger,
		clock:     clock.NewSystem(),
	}
}

// Providers returns the configured providers in sync order.
func (s *Service) Providers() []provider.Config {
	return s.providers
}

// Run syncs every provider in order. A failing provider never stops the others.
func (s *Service) Run(ctx context.Context) []Result {
	runID := uuid.NewString()
	results := make([]Result, 0, len(s.providers))
	for _, p := range s.providers {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.syncProvider(ctx, runID, p))
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	s.logger.Info("Sync run finished",
		zap.String("run_id", runID),
		zap.Int("providers", len(results)),
		zap.Int("failed", failed),
	)
	return results
}

// RunProvider syncs a single configured provider.
func (s *Service) RunProvider(ctx context.Context, name string) (Result, error) {
	for _, p := range s.providers {
		if p.Name == name {
			return s.syncProvider(ctx, uuid.NewString(), p), nil
		}
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// Replay reconciles an archived feed. An empty providerName is taken from the key.
func (s *Service) Replay(ctx context.Context, providerName, key string) Result {
	started := time.Now()
	if providerName == "" {
		providerName, _ = storage.ProviderFromKey(key)
	}
	res := Result{RunID: uuid.NewString(), Provider: providerName, ArchiveKey: key}
	log := s.logger.With(zap.String("run_id", res.RunID), zap.String("provider", providerName), zap.String("key", key))

	switch {
	case providerName == "":
		res.Err = fmt.Errorf("%w: cannot derive provider from %q", ErrUnknownProvider, key)
	case s.archive == nil:
		res.Err = errors.New("feed archive is not configured")
	default:
		document, err := s.archive.Load(ctx, key)
		if err != nil {
			res.Err = err
			break
		}
		s.reconcile(ctx, log, document, &res)
	}

	res.Duration = time.Since(started)
	if res.Err != nil {
		log.Error("Replay failed", zap.Error(res.Err))
	}
	return res
}

// Schedule runs a sync immediately and then every interval until ctx is done.
func (s *Service) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Warn("Scheduled sync disabled", zap.Duration("interval", interval))
		return
	}

	s.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduled sync stopped")
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}

func (s *Service) syncProvider(ctx context.Context, runID string, p provider.Config) Result {
	started := time.Now()
	res := Result{RunID: runID, Provider: p.Name}
	log := s.logger.With(zap.String("run_id", runID), zap.String("provider", p.Name))

	document, err := s.fetcher.Fetch(ctx, p)
	if err != nil {
		res.Err = fmt.Errorf("fetch: %w", err)
		res.Duration = time.Since(started)
		log.Error("Provider fetch failed", zap.Error(err))
		return res
	}

	if s.archive != nil {
		key, err := s.archive.Save(ctx, p.Name, s.clock.Now(), document)
		if err != nil {
			log.Warn("Feed archive failed", zap.Error(err))
		} else {
			res.ArchiveKey = key
		}
	}

	s.reconcile(ctx, log, document, &res)
	res.Duration = time.Since(started)
	if res.Err != nil {
		log.Error("Provider sync failed", zap.Error(res.Err))
	}
	return res
}

// reconcile parses document and upserts it for res.Provider. A malformed
// document never reaches the store.
func (s *Service) reconcile(ctx context.Context, log *zap.Logger, document []byte, res *Result) {
	parsed, err := s.parser.Parse(string(document), res.Provider)
	if err != nil {
		res.Err = fmt.Errorf("parse: %w", err)
		return
	}
	res.Parsed = len(parsed)

	upsert, err := s.repo.Upsert(ctx, parsed, res.Provider)
	res.Upsert = upsert
	if err != nil {
		res.Err = fmt.Errorf("reconcile: %w", err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Purge(ctx); err != nil {
			log.Warn("Cache purge failed", zap.Error(err))
		}
	}

	log.Info("Provider synced",
		zap.Int("parsed", res.Parsed),
		zap.Int("events", upsert.Events),
		zap.Int("skipped", upsert.Skipped),
		zap.Int64("stale_events", upsert.StaleEvents),
	)
}
