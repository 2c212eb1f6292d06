package cache

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// FetchFunc retrieves one entity from the source of truth.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// ReadThrough memoizes entity fetches in a Store. A hit is returned without
// source I/O; a miss runs the fetch and inserts the result before returning
// it. Concurrent misses for the same key are collapsed into a single fetch:
// the first caller executes it, the rest await its result.
//
// Fetch failures never populate the store. When a stale predicate is
// configured and a matching failure occurs, an expired entry is served
// instead of the error.
type ReadThrough[V any] struct {
	store   Store[V]
	group   singleflight.Group
	logger  zerolog.Logger
	staleOK func(error) bool
}

// NewReadThrough wraps a store with read-through semantics. staleOK may be
// nil; when set, it selects the fetch errors for which an expired entry may
// be served as a fallback.
func NewReadThrough[V any](store Store[V], logger zerolog.Logger, staleOK func(error) bool) *ReadThrough[V] {
	return &ReadThrough[V]{
		store:   store,
		logger:  logger.With().Str("component", "ReadThrough").Logger(),
		staleOK: staleOK,
	}
}

// Get returns the cached entity for key, fetching and inserting it on a
// miss.
func (r *ReadThrough[V]) Get(ctx context.Context, key Key, fetch FetchFunc[V]) (V, error) {
	if value, err := r.store.Get(ctx, key); err == nil {
		r.logger.Debug().Str("key", key.String()).Msg("Cache hit.")
		return value, nil
	} else if !errors.Is(err, ErrMiss) {
		r.logger.Error().Err(err).Str("key", key.String()).Msg("Store error treated as miss.")
	}

	ch := r.group.DoChan(key.String(), func() (any, error) {
		// A flight that just finished may have populated the store between
		// our miss and this call.
		if value, err := r.store.Get(ctx, key); err == nil {
			return value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if putErr := r.store.Put(ctx, key, value); putErr != nil {
			r.logger.Error().Err(putErr).Str("key", key.String()).Msg("Failed to write fetched entity to store.")
		}
		return value, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		// The flight keeps running for its other waiters; this caller
		// stops waiting on it.
		var zero V
		return zero, ctx.Err()
	case res = <-ch:
	}
	result, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		if r.staleOK != nil && r.staleOK(err) {
			if stale, staleErr := r.peek(ctx, key); staleErr == nil {
				r.logger.Warn().Err(err).Str("key", key.String()).Msg("Serving stale entry after fetch failure.")
				return stale, nil
			}
		}
		var zero V
		return zero, err
	}

	r.logger.Debug().Str("key", key.String()).Bool("shared", shared).Msg("Cache miss resolved from source.")
	return result.(V), nil
}

// Invalidate removes the entry for key from the underlying store.
func (r *ReadThrough[V]) Invalidate(ctx context.Context, key Key) error {
	return r.store.Invalidate(ctx, key)
}

// Clear empties the underlying store.
func (r *ReadThrough[V]) Clear(ctx context.Context) error {
	return r.store.Clear(ctx)
}

func (r *ReadThrough[V]) peek(ctx context.Context, key Key) (V, error) {
	if sr, ok := r.store.(StaleReader[V]); ok {
		return sr.Peek(ctx, key)
	}
	var zero V
	return zero, ErrMiss
}
