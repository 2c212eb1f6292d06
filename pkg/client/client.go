package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-lounge/pkg/cache"
	"github.com/illmade-knight/go-lounge/pkg/lounge"
	"github.com/illmade-knight/go-lounge/pkg/transport"
)

// Entity kinds used for cache key construction. Single-entity lookups are
// cached per kind; open-ended list lookups always go to the source.
const (
	kindPlayer        = "player"
	kindPlayerDetails = "player-details"
	kindLeaderboard   = "leaderboard"
	kindTable         = "table"
	kindBonus         = "bonus"
	kindPenalty       = "penalty"
)

const redisKeyPrefix = "lounge:"

// Client is the single entry point of one session against the lounge API.
// It owns the transport connection for its lifetime and memoizes decoded
// entities in per-kind read-through caches. Safe for concurrent use;
// concurrent lookups of one cold key share a single fetch.
//
// Close the client when the session ends:
//
//	c, err := client.New(ctx, cfg, logger)
//	if err != nil { ... }
//	defer func() { _ = c.Close() }()
type Client struct {
	transport *transport.Client
	logger    zerolog.Logger

	redisClient *redis.Client
	closeOnce   sync.Once
	closeErr    error

	players      *cache.ReadThrough[*lounge.Player]
	details      *cache.ReadThrough[*lounge.PlayerDetails]
	leaderboards *cache.ReadThrough[*lounge.Leaderboard]
	tables       *cache.ReadThrough[*lounge.Table]
	bonuses      *cache.ReadThrough[*lounge.Bonus]
	penalties    *cache.ReadThrough[*lounge.Penalty]
}

// New opens a client session. The context bounds connection setup only, not
// the session's lifetime.
func New(ctx context.Context, cfg *Config, logger zerolog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	tr, err := transport.New(&transport.Config{
		BaseURL:    cfg.BaseURL,
		APIToken:   cfg.APIToken,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
		HTTPClient: cfg.HTTPClient,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}

	c := &Client{
		transport: tr,
		logger:    logger.With().Str("component", "LoungeClient").Logger(),
	}

	if cfg.RedisAddr != "" {
		redisCfg := &cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			CacheTTL: cfg.CacheTTL,
		}
		c.redisClient, err = cache.NewRedisClient(ctx, redisCfg, logger)
		if err != nil {
			_ = tr.Close()
			return nil, err
		}
	}

	var staleOK func(error) bool
	if cfg.ServeStale {
		staleOK = func(err error) bool {
			var transportErr *lounge.TransportError
			return errors.As(err, &transportErr)
		}
	}

	if err := c.buildCaches(cfg, staleOK); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Client) buildCaches(cfg *Config, staleOK func(error) bool) error {
	var err error
	if c.players, err = newEntityCache[*lounge.Player](c, cfg, staleOK); err != nil {
		return err
	}
	if c.details, err = newEntityCache[*lounge.PlayerDetails](c, cfg, staleOK); err != nil {
		return err
	}
	if c.leaderboards, err = newEntityCache[*lounge.Leaderboard](c, cfg, staleOK); err != nil {
		return err
	}
	if c.tables, err = newEntityCache[*lounge.Table](c, cfg, staleOK); err != nil {
		return err
	}
	if c.bonuses, err = newEntityCache[*lounge.Bonus](c, cfg, staleOK); err != nil {
		return err
	}
	c.penalties, err = newEntityCache[*lounge.Penalty](c, cfg, staleOK)
	return err
}

// newEntityCache assembles the store tiers for one entity kind and wraps
// them with read-through semantics.
func newEntityCache[V any](c *Client, cfg *Config, staleOK func(error) bool) (*cache.ReadThrough[V], error) {
	var memory cache.Store[V]
	if cfg.CacheSize > 0 {
		lru, err := cache.NewLRUStore[V](cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("creating lru store: %w", err)
		}
		memory = lru
	} else {
		memory = cache.NewMemoryStore[V](cfg.CacheTTL)
	}

	store := memory
	if c.redisClient != nil {
		redisStore, err := cache.NewRedisStore[V](c.redisClient, redisKeyPrefix, cfg.CacheTTL, c.logger)
		if err != nil {
			return nil, err
		}
		tiered, err := cache.NewTieredStore[V](memory, redisStore)
		if err != nil {
			return nil, err
		}
		store = tiered
	}

	return cache.NewReadThrough[V](store, c.logger, staleOK), nil
}

// Close releases the session's transport connection and, when configured,
// its Redis connection. Safe to call more than once; only the first call
// does the work.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
		if c.redisClient != nil {
			if err := c.redisClient.Close(); err != nil && c.closeErr == nil {
				c.closeErr = err
			}
		}
		c.logger.Debug().Msg("Client session closed.")
	})
	return c.closeErr
}

// GetPlayer looks up one player profile. The season qualifier selects a
// historical season's MMR standing.
func (c *Client) GetPlayer(ctx context.Context, ref PlayerRef, opts *SeasonOptions) (*lounge.Player, error) {
	params, err := ref.values()
	if err != nil {
		return nil, err
	}
	if err := mergeOptions(params, opts); err != nil {
		return nil, err
	}

	key := cache.Key{Kind: kindPlayer, ID: cacheID(params)}
	return c.players.Get(ctx, key, func(ctx context.Context) (*lounge.Player, error) {
		data, err := c.fetchObject(ctx, "player", params)
		if err != nil {
			return nil, err
		}
		return lounge.DecodePlayer(data)
	})
}

// GetPlayerDetails looks up one player's full season profile, including MMR
// and rename history.
func (c *Client) GetPlayerDetails(ctx context.Context, ref PlayerRef, opts *SeasonOptions) (*lounge.PlayerDetails, error) {
	params, err := ref.detailsValues()
	if err != nil {
		return nil, err
	}
	if err := mergeOptions(params, opts); err != nil {
		return nil, err
	}

	key := cache.Key{Kind: kindPlayerDetails, ID: cacheID(params)}
	return c.details.Get(ctx, key, func(ctx context.Context) (*lounge.PlayerDetails, error) {
		data, err := c.fetchObject(ctx, "player/details", params)
		if err != nil {
			return nil, err
		}
		return lounge.DecodePlayerDetails(data)
	})
}

// ListPlayers lists abbreviated player records matching the filters. The
// result space is open ended, so it is fetched directly rather than cached.
func (c *Client) ListPlayers(ctx context.Context, opts *ListPlayersOptions) ([]lounge.PlayerSummary, error) {
	params, err := optionValues(opts)
	if err != nil {
		return nil, err
	}

	data, err := c.fetchObject(ctx, "player/list", params)
	if err != nil {
		return nil, err
	}
	rows, ok := data["players"].([]any)
	if !ok {
		return nil, &lounge.DecodeError{Entity: "PlayerSummary", Field: "players", Reason: "expected list"}
	}

	summaries := make([]lounge.PlayerSummary, 0, len(rows))
	for i, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return nil, &lounge.DecodeError{Entity: "PlayerSummary", Field: "players", Reason: fmt.Sprintf("element %d: expected object, got %T", i, row)}
		}
		s, err := lounge.DecodePlayerSummary(m)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *s)
	}
	return summaries, nil
}

// GetLeaderboard looks up one page of a season's leaderboard. Pages are
// cached per full parameter set; the default page size is 50.
func (c *Client) GetLeaderboard(ctx context.Context, season int, opts *LeaderboardOptions) (*lounge.Leaderboard, error) {
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be positive", lounge.ErrInvalidArgument)
	}
	resolved := LeaderboardOptions{PageSize: 50}
	if opts != nil {
		resolved = *opts
		if resolved.PageSize <= 0 {
			resolved.PageSize = 50
		}
	}
	params, err := optionValues(&resolved)
	if err != nil {
		return nil, err
	}
	params.Set("season", strconv.Itoa(season))

	key := cache.Key{Kind: kindLeaderboard, ID: cacheID(params)}
	return c.leaderboards.Get(ctx, key, func(ctx context.Context) (*lounge.Leaderboard, error) {
		data, err := c.fetchObject(ctx, "player/leaderboard", params)
		if err != nil {
			return nil, err
		}
		return lounge.DecodeLeaderboard(data)
	})
}

// GetTable looks up one match table by id.
func (c *Client) GetTable(ctx context.Context, tableID int) (*lounge.Table, error) {
	if tableID <= 0 {
		return nil, fmt.Errorf("%w: table id must be positive", lounge.ErrInvalidArgument)
	}
	params := url.Values{"tableId": {strconv.Itoa(tableID)}}

	key := cache.Key{Kind: kindTable, ID: cacheID(params)}
	return c.tables.Get(ctx, key, func(ctx context.Context) (*lounge.Table, error) {
		data, err := c.fetchObject(ctx, "table", params)
		if err != nil {
			return nil, err
		}
		return lounge.DecodeTable(data)
	})
}

// ListTables lists match tables created in the given window. Fetched
// directly rather than cached.
func (c *Client) ListTables(ctx context.Context, opts *ListTablesOptions) ([]lounge.Table, error) {
	params, err := optionValues(opts)
	if err != nil {
		return nil, err
	}
	return c.fetchTableList(ctx, "table/list", params)
}

// ListUnverifiedTables lists tables still awaiting verification.
func (c *Client) ListUnverifiedTables(ctx context.Context, opts *SeasonOptions) ([]lounge.Table, error) {
	params, err := optionValues(opts)
	if err != nil {
		return nil, err
	}
	return c.fetchTableList(ctx, "table/unverified", params)
}

// GetBonus looks up one MMR bonus by id.
func (c *Client) GetBonus(ctx context.Context, id int) (*lounge.Bonus, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: bonus id must be positive", lounge.ErrInvalidArgument)
	}
	params := url.Values{"id": {strconv.Itoa(id)}}

	key := cache.Key{Kind: kindBonus, ID: cacheID(params)}
	return c.bonuses.Get(ctx, key, func(ctx context.Context) (*lounge.Bonus, error) {
		data, err := c.fetchObject(ctx, "bonus", params)
		if err != nil {
			return nil, err
		}
		return lounge.DecodeBonus(data)
	})
}

// ListBonuses lists the bonuses awarded to the named player.
func (c *Client) ListBonuses(ctx context.Context, name string, opts *SeasonOptions) ([]lounge.Bonus, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", lounge.ErrInvalidArgument)
	}
	params, err := optionValues(opts)
	if err != nil {
		return nil, err
	}
	params.Set("name", name)

	rows, err := c.fetchList(ctx, "bonus/list", params)
	if err != nil {
		return nil, err
	}
	bonuses := make([]lounge.Bonus, 0, len(rows))
	for _, row := range rows {
		b, err := lounge.DecodeBonus(row)
		if err != nil {
			return nil, err
		}
		bonuses = append(bonuses, *b)
	}
	return bonuses, nil
}

// GetPenalty looks up one MMR penalty by id.
func (c *Client) GetPenalty(ctx context.Context, id int) (*lounge.Penalty, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: penalty id must be positive", lounge.ErrInvalidArgument)
	}
	params := url.Values{"id": {strconv.Itoa(id)}}

	key := cache.Key{Kind: kindPenalty, ID: cacheID(params)}
	return c.penalties.Get(ctx, key, func(ctx context.Context) (*lounge.Penalty, error) {
		data, err := c.fetchObject(ctx, "penalty", params)
		if err != nil {
			return nil, err
		}
		return lounge.DecodePenalty(data)
	})
}

// ListPenalties lists the penalties applied to the named player.
func (c *Client) ListPenalties(ctx context.Context, name string, opts *ListPenaltiesOptions) ([]lounge.Penalty, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", lounge.ErrInvalidArgument)
	}
	params, err := optionValues(opts)
	if err != nil {
		return nil, err
	}
	params.Set("name", name)

	rows, err := c.fetchList(ctx, "penalty/list", params)
	if err != nil {
		return nil, err
	}
	penalties := make([]lounge.Penalty, 0, len(rows))
	for _, row := range rows {
		p, err := lounge.DecodePenalty(row)
		if err != nil {
			return nil, err
		}
		penalties = append(penalties, *p)
	}
	return penalties, nil
}

// InvalidatePlayer drops the cached profile for the given lookup, forcing
// the next GetPlayer to refetch.
func (c *Client) InvalidatePlayer(ctx context.Context, ref PlayerRef, opts *SeasonOptions) error {
	params, err := ref.values()
	if err != nil {
		return err
	}
	if err := mergeOptions(params, opts); err != nil {
		return err
	}
	return c.players.Invalidate(ctx, cache.Key{Kind: kindPlayer, ID: cacheID(params)})
}

// InvalidateTable drops the cached table, forcing the next GetTable to
// refetch.
func (c *Client) InvalidateTable(ctx context.Context, tableID int) error {
	if tableID <= 0 {
		return fmt.Errorf("%w: table id must be positive", lounge.ErrInvalidArgument)
	}
	params := url.Values{"tableId": {strconv.Itoa(tableID)}}
	return c.tables.Invalidate(ctx, cache.Key{Kind: kindTable, ID: cacheID(params)})
}

// ClearCache empties every entity cache of the session.
func (c *Client) ClearCache(ctx context.Context) error {
	for _, clear := range []func(context.Context) error{
		c.players.Clear,
		c.details.Clear,
		c.leaderboards.Clear,
		c.tables.Clear,
		c.bonuses.Clear,
		c.penalties.Clear,
	} {
		if err := clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// fetchObject requests one endpoint and asserts an object-shaped response.
func (c *Client) fetchObject(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	payload, err := c.transport.Get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	data, ok := payload.(map[string]any)
	if !ok {
		return nil, &lounge.DecodeError{Entity: "response", Reason: fmt.Sprintf("%s: expected object, got %T", endpoint, payload)}
	}
	return data, nil
}

// fetchList requests one endpoint and asserts a list-of-objects response.
func (c *Client) fetchList(ctx context.Context, endpoint string, params url.Values) ([]map[string]any, error) {
	payload, err := c.transport.Get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, &lounge.DecodeError{Entity: "response", Reason: fmt.Sprintf("%s: expected list, got %T", endpoint, payload)}
	}
	rows := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &lounge.DecodeError{Entity: "response", Reason: fmt.Sprintf("%s: element %d: expected object, got %T", endpoint, i, item)}
		}
		rows = append(rows, m)
	}
	return rows, nil
}

func (c *Client) fetchTableList(ctx context.Context, endpoint string, params url.Values) ([]lounge.Table, error) {
	rows, err := c.fetchList(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	tables := make([]lounge.Table, 0, len(rows))
	for _, row := range rows {
		table, err := lounge.DecodeTable(row)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *table)
	}
	return tables, nil
}

func mergeOptions(params url.Values, opts any) error {
	extra, err := optionValues(opts)
	if err != nil {
		return err
	}
	mergeValues(params, extra)
	return nil
}
