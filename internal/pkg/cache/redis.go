// internal/pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON entries in Redis and tracks tag membership in sets
// under tag:<name> so invalidation can delete every covered key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed tagged cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// GetJSON retrieves and decodes the entry stored under key
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes and stores the entry, registering it against each tag
func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, cacheKey(key), data, c.ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), cacheKey(key))
		// Tag sets outlive entries slightly so stale members just miss
		pipe.Expire(ctx, tagKey(tag), c.ttl+time.Minute)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate removes every entry registered against the given tags
func (c *RedisCache) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		members, err := c.client.SMembers(ctx, tagKey(tag)).Result()
		if err != nil {
			return fmt.Errorf("redis smembers failed: %w", err)
		}

		keys := append(members, tagKey(tag))
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	return nil
}

func cacheKey(key string) string {
	return "query:" + key
}

func tagKey(tag string) string {
	return "tag:" + tag
}
