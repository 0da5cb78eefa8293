package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acme-explorer-service/internal/domain/entity"
)

var testSettings = entity.FinderSettings{MaxResults: 10, CacheTTL: time.Hour}

func sampleTrips() []*entity.Trip {
	return []*entity.Trip{
		{
			ID:        "trip-1",
			Ticker:    "260101-ABCD",
			Title:     "Pyrenees",
			Price:     150,
			StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC),
			State:     entity.TripStateActive,
			Stages:    []entity.Stage{{ID: "s1", Title: "Hike", Description: "Day hike", Price: 150}},
			ManagerID: "manager-1",
			Manager:   &entity.ActorSummary{ID: "manager-1", Name: "Ana"},
		},
		{
			ID:              "trip-2",
			Ticker:          "260101-EFGH",
			Title:           "Sahara",
			Price:           280,
			StartDate:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC),
			State:           entity.TripStateCancelled,
			ReasonCancelled: "weather",
			ManagerID:       "manager-2",
		},
	}
}

func newSearchService(finders *mockFinderRepo, trips *mockTripRepo, cache *mockCacheRepo) *TripSearchService {
	m := newTestMetrics()
	l := newTestLogger()
	return NewTripSearchService(finders, trips, NewResultCache(cache, m, l), stubSettings{settings: testSettings}, m, l)
}

func ownedFinder() *entity.Finder {
	return &entity.Finder{
		ID:       "finder-1",
		ActorID:  "explorer-e",
		Name:     "mid range",
		MinPrice: ptr(100.0),
		MaxPrice: ptr(300.0),
	}
}

func TestSearchFinderTrips_SecondCallServedFromCache(t *testing.T) {
	finders := &mockFinderRepo{findByIDFn: func(_ context.Context, id string) (*entity.Finder, error) {
		return ownedFinder(), nil
	}}
	trips := &mockTripRepo{searchFn: func(_ context.Context, _ entity.TripPredicate, _ entity.TripSearchOptions) ([]*entity.Trip, error) {
		return sampleTrips(), nil
	}}
	svc := newSearchService(finders, trips, newMockCacheRepo())

	actor := entity.Actor{ID: "explorer-e", Role: entity.RoleExplorer}

	first, err := svc.SearchFinderTrips(context.Background(), actor, "finder-1")
	require.NoError(t, err)
	second, err := svc.SearchFinderTrips(context.Background(), actor, "finder-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), trips.searchCalls.Load())
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "01/08/2026", first[0].StartDate)
	assert.Equal(t, &entity.ActorSummary{ID: "manager-2"}, first[1].Manager)
}

func TestSearchFinderTrips_NonOwnerForbiddenBeforeCache(t *testing.T) {
	finders := &mockFinderRepo{findByIDFn: func(_ context.Context, _ string) (*entity.Finder, error) {
		return ownedFinder(), nil
	}}
	trips := &mockTripRepo{}
	cache := newMockCacheRepo()
	cache.getErr = errors.New("cache must not be consulted")
	svc := newSearchService(finders, trips, cache)

	manager := entity.Actor{ID: "manager-m", Role: entity.RoleManager}
	_, err := svc.SearchFinderTrips(context.Background(), manager, "finder-1")

	require.ErrorIs(t, err, entity.ErrForbidden)
	assert.Equal(t, int32(0), trips.searchCalls.Load())
	assert.Empty(t, cache.data)
}

func TestSearchFinderTrips_AdminMaySearchAnyFinder(t *testing.T) {
	finders := &mockFinderRepo{findByIDFn: func(_ context.Context, _ string) (*entity.Finder, error) {
		return ownedFinder(), nil
	}}
	svc := newSearchService(finders, &mockTripRepo{}, newMockCacheRepo())

	_, err := svc.SearchFinderTrips(context.Background(), entity.Actor{ID: "root", Role: entity.RoleAdmin}, "finder-1")
	assert.NoError(t, err)
}

func TestSearchFinderTrips_MissingFinder(t *testing.T) {
	svc := newSearchService(&mockFinderRepo{}, &mockTripRepo{}, newMockCacheRepo())

	_, err := svc.SearchFinderTrips(context.Background(), entity.Actor{ID: "x", Role: entity.RoleAdmin}, "nope")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSearchCached_UsesSettingsForLimitAndTTL(t *testing.T) {
	var gotOpts entity.TripSearchOptions
	var gotPred entity.TripPredicate
	trips := &mockTripRepo{searchFn: func(_ context.Context, p entity.TripPredicate, o entity.TripSearchOptions) ([]*entity.Trip, error) {
		gotPred, gotOpts = p, o
		return nil, nil
	}}
	cache := newMockCacheRepo()
	m := newTestMetrics()
	l := newTestLogger()
	settings := stubSettings{settings: entity.FinderSettings{MaxResults: 3, CacheTTL: 90 * time.Second}}
	svc := NewTripSearchService(&mockFinderRepo{}, trips, NewResultCache(cache, m, l), settings, m, l)

	res, err := svc.SearchCached(context.Background(), entity.SearchFilter{Keyword: ptr("coast")})
	require.NoError(t, err)

	assert.Empty(t, res)
	assert.Equal(t, 3, gotOpts.Limit)
	assert.True(t, gotOpts.PopulateManager)
	assert.Equal(t, "coast", gotPred.Text)
	assert.NotContains(t, gotPred.States, entity.TripStateInactive)

	key := CacheKey(entity.SearchFilter{Keyword: ptr("coast")})
	assert.Equal(t, "[]", cache.data[key])
	assert.Equal(t, 90*time.Second, cache.ttls[key])
}

func TestSearchCached_EmptyKeywordSameResultAsOmitted(t *testing.T) {
	trips := &mockTripRepo{searchFn: func(_ context.Context, p entity.TripPredicate, _ entity.TripSearchOptions) ([]*entity.Trip, error) {
		if p.HasText() {
			return nil, nil
		}
		return sampleTrips(), nil
	}}
	svc := newSearchService(&mockFinderRepo{}, trips, newMockCacheRepo())

	omitted, err := svc.SearchCached(context.Background(), entity.SearchFilter{MaxPrice: ptr(500.0)})
	require.NoError(t, err)
	empty, err := svc.SearchCached(context.Background(), entity.SearchFilter{Keyword: ptr(""), MaxPrice: ptr(500.0)})
	require.NoError(t, err)

	assert.Equal(t, omitted, empty)
	assert.Equal(t, int32(1), trips.searchCalls.Load())
}

func TestSearchCached_CacheFailureFallsThroughToStore(t *testing.T) {
	trips := &mockTripRepo{searchFn: func(_ context.Context, _ entity.TripPredicate, _ entity.TripSearchOptions) ([]*entity.Trip, error) {
		return sampleTrips(), nil
	}}
	cache := newMockCacheRepo()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := newSearchService(&mockFinderRepo{}, trips, cache)

	for i := 0; i < 2; i++ {
		res, err := svc.SearchCached(context.Background(), entity.SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, res, 2)
	}
	assert.Equal(t, int32(2), trips.searchCalls.Load())
}

func TestSearchCached_CorruptEntryIsAMiss(t *testing.T) {
	trips := &mockTripRepo{searchFn: func(_ context.Context, _ entity.TripPredicate, _ entity.TripSearchOptions) ([]*entity.Trip, error) {
		return sampleTrips(), nil
	}}
	cache := newMockCacheRepo()
	key := CacheKey(entity.SearchFilter{})
	cache.data[key] = "{not json"
	svc := newSearchService(&mockFinderRepo{}, trips, cache)

	res, err := svc.SearchCached(context.Background(), entity.SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, int32(1), trips.searchCalls.Load())
	assert.NotEqual(t, "{not json", cache.data[key])
}

func TestSearchCached_StoreErrorNotCached(t *testing.T) {
	trips := &mockTripRepo{searchFn: func(_ context.Context, _ entity.TripPredicate, _ entity.TripSearchOptions) ([]*entity.Trip, error) {
		return nil, errors.New("mongo down")
	}}
	cache := newMockCacheRepo()
	svc := newSearchService(&mockFinderRepo{}, trips, cache)

	_, err := svc.SearchCached(context.Background(), entity.SearchFilter{})
	require.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestFindTrips_PaginatesWithoutCaching(t *testing.T) {
	var gotOpts entity.TripSearchOptions
	trips := &mockTripRepo{
		searchFn: func(_ context.Context, _ entity.TripPredicate, o entity.TripSearchOptions) ([]*entity.Trip, error) {
			gotOpts = o
			return sampleTrips(), nil
		},
		countFn: func(_ context.Context, p entity.TripPredicate) (int64, error) {
			assert.NotContains(t, p.States, entity.TripStateInactive)
			return 12, nil
		},
	}
	cache := newMockCacheRepo()
	svc := newSearchService(&mockFinderRepo{}, trips, cache)

	req, err := entity.NewPageRequest(ptr(1), ptr(5), "price,asc", TripSortFields)
	require.NoError(t, err)

	page, err := svc.FindTrips(context.Background(), entity.SearchFilter{}, req)
	require.NoError(t, err)

	assert.Equal(t, 5, gotOpts.Limit)
	assert.Equal(t, 5, gotOpts.Skip)
	assert.Equal(t, "price", gotOpts.SortField)
	assert.False(t, gotOpts.SortDesc)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Records, 2)
	assert.Empty(t, cache.data)
}
