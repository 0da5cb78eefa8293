package repository

import (
	"context"
	"time"
)

// CacheRepository is a TTL key/value store fronting expensive trip searches.
// Get returns entity.ErrCacheMiss when the key is absent or expired.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
