package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value []byte
	built time.Time
	ttl   time.Duration
}

// isExpired returns true if this entry has expired based on its TTL.
func (e memoryEntry) isExpired(now time.Time) bool {
	if e.ttl == 0 {
		return true // No caching
	}
	return now.Sub(e.built) > e.ttl
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists || entry.isExpired(s.now()) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{value: value, built: s.now(), ttl: ttl}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Purge(context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]memoryEntry)
	s.mu.Unlock()
	return nil
}
