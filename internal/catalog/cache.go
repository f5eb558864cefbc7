package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xtding233/booster-sim/internal/gacha"
)

// Cacher is the subset of the redis client the cache needs; *redis.Client
// and *redis.ClusterClient satisfy it.
type Cacher interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cached is a read-through Redis cache in front of a Store. Redis failures
// are logged and fall back to the underlying store.
type Cached struct {
	Store
	rdb    Cacher
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

func NewCached(next Store, rdb Cacher, ttl time.Duration, log *slog.Logger) *Cached {
	if log == nil {
		log = slog.Default()
	}
	return &Cached{Store: next, rdb: rdb, ttl: ttl, prefix: "booster:cards:", log: log}
}

func (c *Cached) key(series string) string { return c.prefix + series }

func (c *Cached) Cards(ctx context.Context, series string) ([]gacha.Card, error) {
	key := c.key(series)
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cards []gacha.Card
		if jerr := json.Unmarshal(b, &cards); jerr == nil {
			return cards, nil
		}
		c.log.Warn("dropping corrupt cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("cache read failed", "key", key, "err", err)
	}

	cards, err := c.Store.Cards(ctx, series)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(cards)
	if err != nil {
		return cards, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "key", key, "err", err)
	}
	return cards, nil
}

// Upsert writes through and evicts the touched series.
func (c *Cached) Upsert(ctx context.Context, cards []gacha.Card) error {
	if err := c.Store.Upsert(ctx, cards); err != nil {
		return err
	}
	seen := map[string]bool{}
	var keys []string
	for _, card := range cards {
		if !seen[card.Series] {
			seen[card.Series] = true
			keys = append(keys, c.key(card.Series))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache evict failed", "keys", keys, "err", err)
	}
	return nil
}
