package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	value    V
	storedAt time.Time
}

// MemoryStore is a thread-safe, in-memory store with an optional TTL.
// A zero TTL means entries never expire within the session, which is the
// default policy. Expired entries are treated as absent at Get time but are
// retained for Peek until replaced or invalidated.
type MemoryStore[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.RWMutex
	data map[Key]memoryEntry[V]
}

// NewMemoryStore creates an in-memory store. ttl <= 0 disables expiration.
func NewMemoryStore[V any](ttl time.Duration) *MemoryStore[V] {
	return &MemoryStore[V]{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[Key]memoryEntry[V]),
	}
}

// Get retrieves a live entry. It never performs I/O.
func (s *MemoryStore[V]) Get(_ context.Context, key Key) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
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

// Peek retrieves an entry regardless of its age.
func (s *MemoryStore[V]) Peek(_ context.Context, key Key) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
	if !ok {
		var zero V
		return zero, ErrMiss
	}
	return entry.value, nil
}

// Put inserts or replaces the entry for key, refreshing its timestamp.
func (s *MemoryStore[V]) Put(_ context.Context, key Key, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = memoryEntry[V]{value: value, storedAt: s.now()}
	return nil
}

// Invalidate removes the entry for key, if any.
func (s *MemoryStore[V]) Invalidate(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Clear removes every entry.
func (s *MemoryStore[V]) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[Key]memoryEntry[V])
	return nil
}

// Len reports the number of entries currently held, expired ones included.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
