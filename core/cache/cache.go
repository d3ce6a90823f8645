package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is a byte-oriented key/value backend with expiry.
type Store interface {
	// Get returns the value and whether it was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Purge removes every entry owned by the store.
	Purge(ctx context.Context) error
}

// Cache fronts a Store with a loader and stampede protection.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	sf     singleflight.Group

	// mu guards gen; a load only writes back if no Purge happened since it started.
	mu  sync.RWMutex
	gen uint64
}

// New creates a cache for the configured driver.
func New(cfg Config, logger *zap.Logger) (*Cache, error) {
	var store Store
	switch cfg.Driver {
	case DriverMemory, "":
		store = NewMemoryStore()
	case DriverRedis:
		store = NewRedisStore(cfg)
	case DriverNone:
		store = noopStore{}
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
	return NewWithStore(store, time.Duration(cfg.TTLSeconds)*time.Second, logger), nil
}

// NewWithStore creates a cache over an existing store.
func NewWithStore(store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, ttl: ttl, logger: logger}
}

// GetOrLoad returns the cached value for key, or calls load and caches its result.
// Concurrent misses for the same key share one load. Store failures degrade to a miss.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if c.ttl <= 0 {
		return load(ctx)
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	// Fast path: check if entry exists and is fresh
	if value, ok := c.get(ctx, key); ok {
		return value, nil
	}

	// Slow path: load using singleflight to prevent stampedes.
	// Loads started before a Purge are not shared with callers after it.
	result, err, _ := c.sf.Do(key+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if value, ok := c.get(ctx, key); ok {
			return value, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.gen != gen {
			c.logger.Debug("Dropping value loaded before purge", zap.String("key", key))
			return value, nil
		}
		if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
			c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// Purge drops every cached entry. Loads in flight when Purge is called
// return their value but do not cache it.
func (c *Cache) Purge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.store.Purge(ctx)
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, ok
}

type noopStore struct{}

func (noopStore) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (noopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noopStore) Purge(context.Context) error                              { return nil }
