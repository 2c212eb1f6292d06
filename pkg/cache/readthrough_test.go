package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/illmade-knight/go-lounge/pkg/cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadThrough_Get(t *testing.T) {
	ctx := context.Background()
	key := cache.Key{Kind: "player", ID: "azure_mk"}

	t.Run("Second get is a hit with no source call", func(t *testing.T) {
		// Arrange
		var fetchCount atomic.Int32
		rt := cache.NewReadThrough[string](cache.NewMemoryStore[string](0), zerolog.Nop(), nil)
		fetch := func(ctx context.Context) (string, error) {
			fetchCount.Add(1)
			return "Azure_mk", nil
		}

		// Act
		first, err := rt.Get(ctx, key, fetch)
		require.NoError(t, err)
		second, err := rt.Get(ctx, key, fetch)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), fetchCount.Load(), "source must be called exactly once")
	})

	t.Run("Keys are isolated", func(t *testing.T) {
		// Arrange
		var fetchCount atomic.Int32
		rt := cache.NewReadThrough[string](cache.NewMemoryStore[string](0), zerolog.Nop(), nil)
		fetchFor := func(value string) cache.FetchFunc[string] {
			return func(ctx context.Context) (string, error) {
				fetchCount.Add(1)
				return value, nil
			}
		}

		// Act
		_, err := rt.Get(ctx, cache.Key{Kind: "player", ID: "a"}, fetchFor("A"))
		require.NoError(t, err)
		b, err := rt.Get(ctx, cache.Key{Kind: "player", ID: "b"}, fetchFor("B"))
		require.NoError(t, err)

		// Assert: populating key a must not satisfy key b.
		assert.Equal(t, "B", b)
		assert.Equal(t, int32(2), fetchCount.Load())
	})

	t.Run("Concurrent cold misses collapse into one fetch", func(t *testing.T) {
		// Arrange
		const callers = 8
		var fetchCount atomic.Int32
		started := make(chan struct{})
		rt := cache.NewReadThrough[string](cache.NewMemoryStore[string](0), zerolog.Nop(), nil)
		fetch := func(ctx context.Context) (string, error) {
			fetchCount.Add(1)
			// Hold the flight open long enough for every caller to join it.
			time.Sleep(50 * time.Millisecond)
			return "Azure_mk", nil
		}

		// Act
		var wg sync.WaitGroup
		results := make([]string, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-started
				results[i], errs[i] = rt.Get(ctx, key, fetch)
			}(i)
		}
		close(started)
		wg.Wait()

		// Assert
		assert.Equal(t, int32(1), fetchCount.Load(), "N concurrent gets of one cold key must issue exactly one fetch")
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, "Azure_mk", results[i])
		}
	})

	t.Run("Cancelled waiter returns without riding out the fetch", func(t *testing.T) {
		// Arrange: a fetch that blocks until released.
		started := make(chan struct{})
		release := make(chan struct{})
		rt := cache.NewReadThrough[string](cache.NewMemoryStore[string](0), zerolog.Nop(), nil)
		fetch := func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "Azure_mk", nil
		}

		leaderDone := make(chan error, 1)
		go func() {
			_, err := rt.Get(ctx, key, fetch)
			leaderDone <- err
		}()
		<-started

		// Act: join the in-flight fetch with an already short deadline.
		waiterCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := rt.Get(waiterCtx, key, fetch)

		// Assert: the waiter exits on its own deadline; the original
		// caller still gets the fetched value.
		require.ErrorIs(t, err, context.DeadlineExceeded)
		close(release)
		require.NoError(t, <-leaderDone)
		value, err := rt.Get(ctx, key, fetch)
		require.NoError(t, err)
		assert.Equal(t, "Azure_mk", value)
	})

	t.Run("Fetch failure does not pollute the store", func(t *testing.T) {
		// Arrange
		var fetchCount atomic.Int32
		failing := errors.New("upstream timeout")
		rt := cache.NewReadThrough[string](cache.NewMemoryStore[string](0), zerolog.Nop(), nil)

		// Act: first call fails, second succeeds.
		_, err := rt.Get(ctx, key, func(ctx context.Context) (string, error) {
			fetchCount.Add(1)
			return "", failing
		})
		require.ErrorIs(t, err, failing)

		value, err := rt.Get(ctx, key, func(ctx context.Context) (string, error) {
			fetchCount.Add(1)
			return "Azure_mk", nil
		})

		// Assert: the failed attempt left no entry, so a real fetch ran.
		require.NoError(t, err)
		assert.Equal(t, "Azure_mk", value)
		assert.Equal(t, int32(2), fetchCount.Load())
	})

	t.Run("Invalidate forces a refetch", func(t *testing.T) {
		// Arrange
		var fetchCount atomic.Int32
		rt := cache.NewReadThrough[string](cache.NewMemoryStore[string](0), zerolog.Nop(), nil)
		fetch := func(ctx context.Context) (string, error) {
			fetchCount.Add(1)
			return "v", nil
		}
		_, err := rt.Get(ctx, key, fetch)
		require.NoError(t, err)

		// Act
		require.NoError(t, rt.Invalidate(ctx, key))
		_, err = rt.Get(ctx, key, fetch)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int32(2), fetchCount.Load())
	})

	t.Run("Stale entry served only when predicate opts in", func(t *testing.T) {
		// Arrange: a TTL store so the entry expires, and a predicate that
		// accepts the failure.
		failure := errors.New("upstream down")
		store := cache.NewMemoryStore[string](10 * time.Millisecond)
		staleOK := func(err error) bool { return errors.Is(err, failure) }
		rt := cache.NewReadThrough[string](store, zerolog.Nop(), staleOK)

		_, err := rt.Get(ctx, key, func(ctx context.Context) (string, error) { return "old", nil })
		require.NoError(t, err)
		time.Sleep(30 * time.Millisecond)

		// Act
		value, err := rt.Get(ctx, key, func(ctx context.Context) (string, error) { return "", failure })

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "old", value)

		// Without the predicate the same failure surfaces unchanged.
		rtStrict := cache.NewReadThrough[string](store, zerolog.Nop(), nil)
		_, err = rtStrict.Get(ctx, cache.Key{Kind: "player", ID: "cold"}, func(ctx context.Context) (string, error) { return "", failure })
		require.ErrorIs(t, err, failure)
	})
}
