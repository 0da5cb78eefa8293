package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"
)

// RedisCache stores search results in Redis with per-key expiry
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a new Redis-backed cache. Keys are stored exactly as given,
// so an entry's Redis key is the canonical filter JSON.
func NewRedisCache(client redis.UniversalClient) repository.CacheRepository {
	return &RedisCache{
		client: client,
	}
}

// Get returns the value for key or entity.ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", entity.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set overwrites key with value expiring after ttl. Expiry is never extended by reads.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return c.client.Del(ctx, key).Err()
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
