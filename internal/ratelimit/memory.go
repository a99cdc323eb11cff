package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps throttle markers in an in-process LRU with per-entry
// expiry. Suitable for a single instance (dev, tests); production should
// use RedisStore so the limit is shared across instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries *lru.Cache[string, time.Time]
	now     func() time.Time
}

// NewMemoryStore creates a store bounded at size entries.
func NewMemoryStore(size int) (*MemoryStore, error) {
	entries, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{entries: entries, now: time.Now}, nil
}

// SetIfAbsent plants the marker if no live one exists. The check and the
// set run under one lock so concurrent callers cannot both pass.
func (s *MemoryStore) SetIfAbsent(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.entries.Get(key); ok && s.now().Before(expiry) {
		return false, nil
	}

	s.entries.Add(key, s.now().Add(ttl))
	return true, nil
}
