package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
)

// ResultCache is the cache-aside store of cleaned trip lists keyed by canonical filter.
// It never fails a search: backend errors and corrupt entries are logged and
// reported as misses.
type ResultCache struct {
	store   repository.CacheRepository
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewResultCache creates a new result cache
func NewResultCache(store repository.CacheRepository, metrics *metrics.Metrics, logger logger.Logger) *ResultCache {
	return &ResultCache{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Get returns the cached result set for key, or false on miss
func (c *ResultCache) Get(ctx context.Context, key string) ([]entity.CleanTrip, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, entity.ErrCacheMiss) {
			c.logger.Warn("Result cache read failed, querying trip store", "key", key, "error", err)
			c.metrics.CacheErrors.WithLabelValues("get").Inc()
		}
		return nil, false
	}

	var trips []entity.CleanTrip
	if err := json.Unmarshal([]byte(raw), &trips); err != nil {
		c.logger.Warn("Discarding corrupt result cache entry", "key", key, "error", err)
		c.metrics.CacheErrors.WithLabelValues("decode").Inc()
		return nil, false
	}
	return trips, true
}

// Set stores trips under key for ttl, overwriting any previous value
func (c *ResultCache) Set(ctx context.Context, key string, trips []entity.CleanTrip, ttl time.Duration) {
	raw, err := json.Marshal(trips)
	if err != nil {
		c.logger.Error("Failed to encode result set for cache", "key", key, "error", err)
		c.metrics.CacheErrors.WithLabelValues("encode").Inc()
		return
	}

	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		c.logger.Warn("Result cache write failed", "key", key, "error", err)
		c.metrics.CacheErrors.WithLabelValues("set").Inc()
	}
}
