package cache

import (
	"context"
	"errors"
)

// TieredStore chains stores from fastest to slowest. Get returns the first
// hit and backfills the faster tiers; Put writes through every tier so no
// tier ever holds a diverging copy of an entry.
type TieredStore[V any] struct {
	tiers []Store[V]
}

// NewTieredStore chains the given stores. At least one tier is required.
func NewTieredStore[V any](tiers ...Store[V]) (*TieredStore[V], error) {
	if len(tiers) == 0 {
		return nil, errors.New("at least one store tier is required")
	}
	return &TieredStore[V]{tiers: tiers}, nil
}

// Get returns the first hit across tiers, copying it into the missed
// faster tiers on the way out.
func (s *TieredStore[V]) Get(ctx context.Context, key Key) (V, error) {
	for i, tier := range s.tiers {
		value, err := tier.Get(ctx, key)
		if err == nil {
			for j := 0; j < i; j++ {
				// Backfill failures are not fatal: the slower tier already
				// holds the entry.
				_ = s.tiers[j].Put(ctx, key, value)
			}
			return value, nil
		}
	}
	var zero V
	return zero, ErrMiss
}

// Peek consults tiers that retain expired entries.
func (s *TieredStore[V]) Peek(ctx context.Context, key Key) (V, error) {
	for _, tier := range s.tiers {
		if sr, ok := tier.(StaleReader[V]); ok {
			if value, err := sr.Peek(ctx, key); err == nil {
				return value, nil
			}
		}
	}
	var zero V
	return zero, ErrMiss
}

// Put writes the entry through every tier.
func (s *TieredStore[V]) Put(ctx context.Context, key Key, value V) error {
	var firstErr error
	for _, tier := range s.tiers {
		if err := tier.Put(ctx, key, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Invalidate removes the entry from every tier.
func (s *TieredStore[V]) Invalidate(ctx context.Context, key Key) error {
	var firstErr error
	for _, tier := range s.tiers {
		if err := tier.Invalidate(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Clear empties every tier.
func (s *TieredStore[V]) Clear(ctx context.Context) error {
	var firstErr error
	for _, tier := range s.tiers {
		if err := tier.Clear(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
