package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "kvcache:"

// Cache wraps a KV with a Redis read-through cache. Writes go to the base
// store first and then evict the cached value.
type Cache struct {
	base  KV
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching KV using the provided Redis client and TTL.
func NewCache(base KV, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := c.load(ctx, key); ok {
		return v, true, nil
	}
	v, ok, err := c.base.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if ok {
		c.store(ctx, key, v)
	}
	return v, ok, nil
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	if err := c.base.Set(ctx, key, value); err != nil {
		return err
	}
	c.evict(ctx, key)
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.base.Delete(ctx, key); err != nil {
		return err
	}
	c.evict(ctx, key)
	return nil
}

func (c *Cache) load(ctx context.Context, key string) (string, bool) {
	if c.redis == nil {
		return "", false
	}
	v, err := c.redis.Get(ctx, cacheKey(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, cacheKey(key)).Err()
		}
		return "", false
	}
	return v, true
}

func (c *Cache) store(ctx context.Context, key, value string) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	_ = c.redis.Set(ctx, cacheKey(key), value, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, cacheKey(key)).Result()
}

func cacheKey(key string) string {
	return cachePrefix + key
}
