package cache

import (
	"context"
	"errors"
)

// ErrMiss reports that a key is absent from a store, or present but expired.
var ErrMiss = errors.New("cache: miss")

// Key addresses one cached entity: the entity kind plus its identifier.
// Identifier normalization (case folding, canonical parameter encoding) is
// the caller's responsibility and must happen before key construction.
type Key struct {
	Kind string
	ID   string
}

func (k Key) String() string {
	return k.Kind + "/" + k.ID
}

// Store is a pure key-value layer for decoded entities. Get never performs
// source I/O; populating a store on a miss is the read-through's job.
// Put replaces any existing entry wholesale and is idempotent.
type Store[V any] interface {
	Get(ctx context.Context, key Key) (V, error)
	Put(ctx context.Context, key Key, value V) error
	Invalidate(ctx context.Context, key Key) error
	Clear(ctx context.Context) error
}

// StaleReader is an optional extension of Store for tiers that retain
// expired entries. Peek returns an entry even when its TTL has lapsed.
type StaleReader[V any] interface {
	Peek(ctx context.Context, key Key) (V, error)
}
