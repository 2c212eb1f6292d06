package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	CacheTTL  time.Duration
}

// NewRedisClient creates and connects a Redis client for use by one or more
// RedisStore tiers. It pings the server to ensure connectivity before
// returning. The caller owns the client and must close it.
func NewRedisClient(ctx context.Context, cfg *RedisConfig, logger zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("redis_address", cfg.Addr).Msg("Connected to Redis cache tier.")
	return rdb, nil
}

// RedisStore is a Redis-backed store tier. Values are stored as their
// JSON-marshalled form under "<prefix><kind>/<id>", so sessions sharing one
// Redis instance share warm entries. Intended as a second tier behind an
// in-memory store, never as the default. The injected client's lifecycle is
// managed externally; Close on this store is a no-op.
type RedisStore[V any] struct {
	client    *redis.Client
	logger    zerolog.Logger
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore wraps an already-connected Redis client as a store tier.
func NewRedisStore[V any](client *redis.Client, keyPrefix string, ttl time.Duration, logger zerolog.Logger) (*RedisStore[V], error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &RedisStore[V]{
		client:    client,
		logger:    logger.With().Str("component", "RedisStore").Logger(),
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

// Get retrieves and unmarshals the entry for key.
func (s *RedisStore[V]) Get(ctx context.Context, key Key) (V, error) {
	var zero V
	data, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrMiss
		}
		s.logger.Error().Err(err).Str("key", key.String()).Msg("Unexpected Redis error during get.")
		return zero, err
	}

	var value V
	if err := json.Unmarshal([]byte(data), &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return value, nil
}

// Put marshals and stores the entry for key with the configured TTL.
func (s *RedisStore[V]) Put(ctx context.Context, key Key, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data for caching: %w", err)
	}
	if err := s.client.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Invalidate removes the entry for key.
func (s *RedisStore[V]) Invalidate(ctx context.Context, key Key) error {
	return s.client.Del(ctx, s.redisKey(key)).Err()
}

// Clear removes every entry under this store's prefix.
func (s *RedisStore[V]) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStore[V]) redisKey(key Key) string {
	return s.keyPrefix + key.String()
}
