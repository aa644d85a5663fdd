package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listCacheKey prefixes the JSON-encoded product list. The full key ends
	// with the generation the list was read under.
	listCacheKey = "products:all"

	// listGenKey is bumped by every write to the catalog.
	listGenKey = "products:gen"
)

// ListCache caches the product list. Entries are tied to a generation:
// Get reports the current generation even on a miss, and Set stores under
// the generation the caller read before querying the database. A write
// that lands in between moves the generation on, so a list read before it
// is never served.
type ListCache interface {
	Get(ctx context.Context) (products []Product, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, products []Product) error
	Invalidate(ctx context.Context) error
}

// redisListCache implements ListCache on Redis. Entries carry a TTL so
// superseded generations are reclaimed.
type redisListCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewListCache returns a Redis-backed cache, or a no-op cache when rdb is nil.
func NewListCache(rdb *redis.Client, ttl time.Duration) ListCache {
	if rdb == nil {
		return noopListCache{}
	}
	return &redisListCache{redis: rdb, ttl: ttl}
}

func listKey(gen int64) string {
	return listCacheKey + ":" + strconv.FormatInt(gen, 10)
}

func (c *redisListCache) Get(ctx context.Context) ([]Product, int64, bool, error) {
	gen, err := c.redis.Get(ctx, listGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return nil, 0, false, fmt.Errorf("reading product list generation from Redis: %w", err)
	}

	data, err := c.redis.Get(ctx, listKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("reading product list from Redis: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, gen, false, fmt.Errorf("unmarshaling cached product list: %w", err)
	}
	return products, gen, true, nil
}

func (c *redisListCache) Set(ctx context.Context, gen int64, products []Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshaling product list: %w", err)
	}
	if err := c.redis.Set(ctx, listKey(gen), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing product list in Redis: %w", err)
	}
	return nil
}

func (c *redisListCache) Invalidate(ctx context.Context) error {
	if err := c.redis.Incr(ctx, listGenKey).Err(); err != nil {
		return fmt.Errorf("bumping product list generation in Redis: %w", err)
	}
	return nil
}

// noopListCache always misses.
type noopListCache struct{}

func (noopListCache) Get(context.Context) ([]Product, int64, bool, error) { return nil, 0, false, nil }
func (noopListCache) Set(context.Context, int64, []Product) error        { return nil }
func (noopListCache) Invalidate(context.Context) error                   { return nil }
