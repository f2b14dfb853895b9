// Package cache implements the shared event cache on Redis.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEventCache implements adapter.EventCache on a shared Redis instance,
// so webhook deduplication holds across all API replicas.
type RedisEventCache struct {
	client *redis.Client
}

// NewRedisEventCache creates a new RedisEventCache instance.
func NewRedisEventCache(client *redis.Client) *RedisEventCache {
	return &RedisEventCache{client: client}
}

// Seen reports whether the key was marked within its TTL.
func (c *RedisEventCache) Seen(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkSeen records the key for the given TTL.
func (c *RedisEventCache) MarkSeen(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Set(ctx, key, "1", ttl).Err()
}
