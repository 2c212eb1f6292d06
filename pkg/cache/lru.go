package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUStore is a bounded in-memory store with least-recently-used eviction,
// for sessions that look up many distinct entities. Like MemoryStore it
// supports an optional TTL; expired entries count as absent at Get time.
type LRUStore[V any] struct {
	ttl     time.Duration
	now     func() time.Time
	entries *lru.Cache[Key, memoryEntry[V]]
}

// NewLRUStore creates a bounded store holding at most maxSize entries.
// ttl <= 0 disables expiration.
func NewLRUStore[V any](maxSize int, ttl time.Duration) (*LRUStore[V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("maxSize must be greater than 0")
	}
	entries, err := lru.New[Key, memoryEntry[V]](maxSize)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}
	return &LRUStore[V]{ttl: ttl, now: time.Now, entries: entries}, nil
}

// Get retrieves a live entry, marking it as recently used.
func (s *LRUStore[V]) Get(_ context.Context, key Key) (V, error) {
	entry, ok := s.entries.Get(key)
	if !ok {
		var zero V
		return zero, ErrMiss
	}
	if s.ttl > 0 && s.now().Sub(entry.storedAt) > s.ttl {
		var zero V
		return zero, ErrMiss
	}
	return entry.value, nil
}

// Peek retrieves an entry regardless of its age, without touching recency.
func (s *LRUStore[V]) Peek(_ context.Context, key Key) (V, error) {
	entry, ok := s.entries.Peek(key)
	if !ok {
		var zero V
		return zero, ErrMiss
	}
	return entry.value, nil
}

// Put inserts or replaces the entry for key, possibly evicting the least
// recently used one.
func (s *LRUStore[V]) Put(_ context.Context, key Key, value V) error {
	s.entries.Add(key, memoryEntry[V]{value: value, storedAt: s.now()})
	return nil
}

// Invalidate removes the entry for key, if any.
func (s *LRUStore[V]) Invalidate(_ context.Context, key Key) error {
	s.entries.Remove(key)
	return nil
}

// Clear removes every entry.
func (s *LRUStore[V]) Clear(_ context.Context) error {
	s.entries.Purge()
	return nil
}
