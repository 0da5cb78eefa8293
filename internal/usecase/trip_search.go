package usecase

import (
	"context"
	"fmt"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/policy"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
)

// TripSortFields are the fields a paginated trip listing may be sorted by
var TripSortFields = []string{"createdAt", "price", "startDate", "endDate", "title", "ticker"}

// FinderSettingsProvider resolves the effective finder limits
type FinderSettingsProvider interface {
	FinderSettings(ctx context.Context) entity.FinderSettings
}

// TripSearchService answers finder-based and inline trip searches through the result cache
type TripSearchService struct {
	finderRepo repository.FinderRepository
	tripRepo   repository.TripRepository
	cache      *ResultCache
	settings   FinderSettingsProvider
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewTripSearchService creates a new trip search service
func NewTripSearchService(
	finderRepo repository.FinderRepository,
	tripRepo repository.TripRepository,
	cache *ResultCache,
	settings FinderSettingsProvider,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *TripSearchService {
	return &TripSearchService{
		finderRepo: finderRepo,
		tripRepo:   tripRepo,
		cache:      cache,
		settings:   settings,
		metrics:    metrics,
		logger:     logger,
	}
}

// SearchFinderTrips runs the search saved in a finder. Existence and ownership are
// checked before the cache is consulted.
func (s *TripSearchService) SearchFinderTrips(ctx context.Context, actor entity.Actor, finderID string) ([]entity.CleanTrip, error) {
	finder, err := s.finderRepo.FindByID(ctx, finderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load finder %s: %w", finderID, err)
	}
	if !policy.CanSearchFinderTrips(actor, finder) {
		return nil, fmt.Errorf("%w: finder %s belongs to another actor", entity.ErrForbidden, finderID)
	}

	return s.SearchCached(ctx, finder.Filter())
}

// SearchCached returns the trips matching filter, served from the result cache when possible
func (s *TripSearchService) SearchCached(ctx context.Context, filter entity.SearchFilter) ([]entity.CleanTrip, error) {
	start := time.Now()
	query := BuildFinderQuery(filter)

	if trips, ok := s.cache.Get(ctx, query.CacheKey); ok {
		s.metrics.CacheHits.Inc()
		s.metrics.SearchDuration.WithLabelValues("cache").Observe(time.Since(start).Seconds())
		s.logger.Debug("Trip search served from cache", "key", query.CacheKey, "count", len(trips))
		return trips, nil
	}
	s.metrics.CacheMisses.Inc()

	settings := s.settings.FinderSettings(ctx)
	opts := entity.TripSearchOptions{
		Limit:           settings.MaxResults,
		SortField:       entity.DefaultSortField,
		SortDesc:        true,
		PopulateManager: true,
	}

	trips, err := s.tripRepo.Search(ctx, query.Predicate, opts)
	if err != nil {
		s.metrics.ErrorsCount.WithLabelValues("trip_search").Inc()
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}

	cleaned := entity.CleanTrips(trips)
	s.cache.Set(ctx, query.CacheKey, cleaned, settings.CacheTTL)

	s.metrics.SearchDuration.WithLabelValues("store").Observe(time.Since(start).Seconds())
	s.logger.Debug("Trip search served from store",
		"key", query.CacheKey,
		"count", len(cleaned),
		"ttl", settings.CacheTTL)

	return cleaned, nil
}

// FindTrips is the public paginated browse. Results are never cached.
func (s *TripSearchService) FindTrips(ctx context.Context, filter entity.SearchFilter, page entity.PageRequest) (entity.Page[entity.CleanTrip], error) {
	predicate := BuildTripPredicate(filter)

	total, err := s.tripRepo.Count(ctx, predicate)
	if err != nil {
		return entity.Page[entity.CleanTrip]{}, fmt.Errorf("failed to count trips: %w", err)
	}

	trips, err := s.tripRepo.Search(ctx, predicate, entity.TripSearchOptions{
		Limit:           page.PerPage,
		Skip:            page.Skip(),
		SortField:       page.SortField,
		SortDesc:        page.SortDesc,
		PopulateManager: true,
	})
	if err != nil {
		return entity.Page[entity.CleanTrip]{}, fmt.Errorf("failed to search trips: %w", err)
	}

	return entity.NewPage(entity.CleanTrips(trips), page, total), nil
}

