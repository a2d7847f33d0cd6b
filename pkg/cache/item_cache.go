package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ItemCacheTTL bounds how long a cached item survives without eviction.
	ItemCacheTTL = 24 * time.Hour

	itemCacheKeyPrefix = "catalog:item"
)

// setUnlessGone writes the item hash and its expiry unless the item's
// tombstone (KEYS[2]) exists. Returns 1 when the hash was written.
var setUnlessGone = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "name", ARGV[1], "description", ARGV[2], "price", ARGV[3])
redis.call("EXPIRE", KEYS[1], ARGV[4])
return 1
`)

// ErrCacheMiss is returned by ItemCache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CachedItem is the catalog item read model stored as a Redis hash.
type CachedItem struct {
	ID          int64
	Name        string
	Description string
	Price       float64
}

// ItemCache reads and writes catalog items under "catalog:item:{id}".
type ItemCache struct {
	client *RedisClient
}

// NewItemCache returns nil when r is nil, so callers can treat a nil
// *ItemCache as "caching disabled".
func NewItemCache(r *RedisClient) *ItemCache {
	if r == nil {
		return nil
	}
	return &ItemCache{client: r}
}

// Get returns ErrCacheMiss when the item is not cached.
func (c *ItemCache) Get(ctx context.Context, id int64) (*CachedItem, error) {
	vals, err := c.client.Client().HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, ErrCacheMiss
	}

	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse price: %w", err)
	}
	return &CachedItem{
		ID:          id,
		Name:        vals["name"],
		Description: vals["description"],
		Price:       price,
	}, nil
}

// Set stores item with ItemCacheTTL. Fields, expiry and the tombstone check
// run as one script, so an item evicted by Delete is never written back.
// stored is false when the item had been deleted.
func (c *ItemCache) Set(ctx context.Context, item *CachedItem) (stored bool, err error) {
	n, err := setUnlessGone.Run(ctx, c.client.Client(),
		[]string{key(item.ID), tombstoneKey(item.ID)},
		item.Name,
		item.Description,
		strconv.FormatFloat(item.Price, 'g', -1, 64),
		int64(ItemCacheTTL/time.Second),
	).Int()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return n == 1, nil
}

// Delete evicts an item and leaves a tombstone for ItemCacheTTL so that
// in-flight readers cannot re-cache it. Item ids are never reused.
// Deleting an absent key is not an error.
func (c *ItemCache) Delete(ctx context.Context, id int64) error {
	_, err := c.client.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tombstoneKey(id), "1", ItemCacheTTL)
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func key(id int64) string {
	return itemCacheKeyPrefix + ":" + strconv.FormatInt(id, 10)
}

func tombstoneKey(id int64) string {
	return key(id) + ":gone"
}
