package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-catalog/core/cache"
	"event-catalog/feature/events/models"

	"go.uber.org/zap"
)

// Finder is the read side of the event store.
type Finder interface {
	FindEventsInRange(ctx context.Context, startsAt, endsAt time.Time) ([]models.Event, error)
}

// Service answers search queries, caching results per range.
type Service struct {
	finder Finder
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService creates a search service. A nil cache disables caching.
func NewService(finder Finder, c *cache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{finder: finder, cache: c, logger: logger}
}

// Search returns the summaries of the events with a plan starting in [startsAt, endsAt].
func (s *Service) Search(ctx context.Context, startsAt, endsAt time.Time) ([]EventSummary, error) {
	load := func(ctx context.Context) ([]byte, error) {
		found, err := s.finder.FindEventsInRange(ctx, startsAt, endsAt)
		if err != nil {
			return nil, err
		}
		summaries := make([]EventSummary, 0, len(found))
		for _, e := range found {
			summaries = append(summaries, Summarize(e))
		}
		return json.Marshal(summaries)
	}

	var (
		body []byte
		err  error
	)
	if s.cache != nil {
		body, err = s.cache.GetOrLoad(ctx, searchKey(startsAt, endsAt), load)
	} else {
		body, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	var summaries []EventSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode cached search: %w", err)
	}
	return summaries, nil
}

func searchKey(startsAt, endsAt time.Time) string {
	return "search:" + startsAt.UTC().Format(time.RFC3339Nano) + ":" + endsAt.UTC().Format(time.RFC3339Nano)
}
