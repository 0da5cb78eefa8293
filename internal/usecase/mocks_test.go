package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

func newTestLogger() logger.Logger {
	return logger.NewNopLogger()
}

func ptr[T any](v T) *T { return &v }

// --- finders ---

var _ repository.FinderRepository = (*mockFinderRepo)(nil)

type mockFinderRepo struct {
	createFn   func(ctx context.Context, f *entity.Finder) error
	findByIDFn func(ctx context.Context, id string) (*entity.Finder, error)
	listFn     func(ctx context.Context, q entity.FinderListQuery) ([]*entity.Finder, int64, error)
	updateFn   func(ctx context.Context, f *entity.Finder) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockFinderRepo) Create(ctx context.Context, f *entity.Finder) error {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	f.ID = "finder-1"
	return nil
}

func (m *mockFinderRepo) FindByID(ctx context.Context, id string) (*entity.Finder, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, entity.ErrNotFound
}

func (m *mockFinderRepo) List(ctx context.Context, q entity.FinderListQuery) ([]*entity.Finder, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, 0, nil
}

func (m *mockFinderRepo) Update(ctx context.Context, f *entity.Finder) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, f)
	}
	return nil
}

func (m *mockFinderRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- trips ---

var _ repository.TripRepository = (*mockTripRepo)(nil)

type mockTripRepo struct {
	searchFn   func(ctx context.Context, p entity.TripPredicate, o entity.TripSearchOptions) ([]*entity.Trip, error)
	countFn    func(ctx context.Context, p entity.TripPredicate) (int64, error)
	createFn   func(ctx context.Context, t *entity.Trip) error
	findByIDFn func(ctx context.Context, id string) (*entity.Trip, error)
	updateFn   func(ctx context.Context, t *entity.Trip) error
	deleteFn   func(ctx context.Context, id string) error

	searchCalls atomic.Int32
}

func (m *mockTripRepo) Search(ctx context.Context, p entity.TripPredicate, o entity.TripSearchOptions) ([]*entity.Trip, error) {
	m.searchCalls.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, p, o)
	}
	return nil, nil
}

func (m *mockTripRepo) Count(ctx context.Context, p entity.TripPredicate) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, p)
	}
	return 0, nil
}

func (m *mockTripRepo) Create(ctx context.Context, t *entity.Trip) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	t.ID = "trip-1"
	return nil
}

func (m *mockTripRepo) FindByID(ctx context.Context, id string) (*entity.Trip, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, entity.ErrNotFound
}

func (m *mockTripRepo) Update(ctx context.Context, t *entity.Trip) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, t)
	}
	return nil
}

func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- applications ---

var _ repository.ApplicationRepository = (*mockApplicationRepo)(nil)

type mockApplicationRepo struct {
	countFn func(ctx context.Context, tripID, state string) (int64, error)
}

func (m *mockApplicationRepo) CountByTripAndState(ctx context.Context, tripID, state string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, tripID, state)
	}
	return 0, nil
}

// --- cache ---

var _ repository.CacheRepository = (*mockCacheRepo)(nil)

type mockCacheRepo struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCacheRepo) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", entity.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCacheRepo) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

// --- configuration ---

var _ repository.ConfigurationRepository = (*mockConfigRepo)(nil)

type mockConfigRepo struct {
	entries []entity.ConfigurationEntry
	listErr error
	setFn   func(ctx context.Context, key, value string) error
}

func (m *mockConfigRepo) List(context.Context) ([]entity.ConfigurationEntry, error) {
	return m.entries, m.listErr
}

func (m *mockConfigRepo) Set(ctx context.Context, key, value string) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.entries = append(m.entries, entity.ConfigurationEntry{Key: key, Value: value})
	return nil
}

type stubSettings struct {
	settings entity.FinderSettings
}

func (s stubSettings) FinderSettings(context.Context) entity.FinderSettings {
	return s.settings
}

// --- warehouse ---

var _ repository.IndicatorRepository = (*mockIndicatorRepo)(nil)

type mockIndicatorRepo struct {
	mu        sync.Mutex
	inserted  []*entity.Indicator
	insertErr error
	latest    *entity.Indicator
}

func (m *mockIndicatorRepo) Insert(_ context.Context, ind *entity.Indicator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	ind.ID = "indicator-1"
	m.inserted = append(m.inserted, ind)
	return nil
}

func (m *mockIndicatorRepo) ListAll(context.Context) ([]*entity.Indicator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Indicator, 0, len(m.inserted))
	for i := len(m.inserted) - 1; i >= 0; i-- {
		out = append(out, m.inserted[i])
	}
	return out, nil
}

func (m *mockIndicatorRepo) Latest(context.Context) (*entity.Indicator, error) {
	return m.latest, nil
}

func (m *mockIndicatorRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserted)
}

var _ repository.AnalyticsRepository = (*mockAnalyticsRepo)(nil)

type mockAnalyticsRepo struct {
	priceFn    func(ctx context.Context) (entity.PriceStatistics, error)
	managersFn func(ctx context.Context) (entity.CountStatistics, error)
	findersFn  func(ctx context.Context, top int) (entity.FinderStatistics, error)
	appsFn     func(ctx context.Context) (entity.CountStatistics, error)
	statesFn   func(ctx context.Context) (map[string]int64, error)
	spendingFn func(ctx context.Context, p entity.CubePeriod) ([]entity.CubeCell, error)
}

func (m *mockAnalyticsRepo) TripPriceStatistics(ctx context.Context) (entity.PriceStatistics, error) {
	if m.priceFn != nil {
		return m.priceFn(ctx)
	}
	return entity.PriceStatistics{}, nil
}

func (m *mockAnalyticsRepo) TripsPerManagerStatistics(ctx context.Context) (entity.CountStatistics, error) {
	if m.managersFn != nil {
		return m.managersFn(ctx)
	}
	return entity.CountStatistics{}, nil
}

func (m *mockAnalyticsRepo) FinderStatistics(ctx context.Context, top int) (entity.FinderStatistics, error) {
	if m.findersFn != nil {
		return m.findersFn(ctx, top)
	}
	return entity.FinderStatistics{}, nil
}

func (m *mockAnalyticsRepo) ApplicationsPerTripStatistics(ctx context.Context) (entity.CountStatistics, error) {
	if m.appsFn != nil {
		return m.appsFn(ctx)
	}
	return entity.CountStatistics{}, nil
}

func (m *mockAnalyticsRepo) ApplicationCountsByState(ctx context.Context) (map[string]int64, error) {
	if m.statesFn != nil {
		return m.statesFn(ctx)
	}
	return map[string]int64{}, nil
}

func (m *mockAnalyticsRepo) SpendingByExplorer(ctx context.Context, p entity.CubePeriod) ([]entity.CubeCell, error) {
	if m.spendingFn != nil {
		return m.spendingFn(ctx, p)
	}
	return nil, nil
}

var _ repository.DataCubeRepository = (*mockCubeRepo)(nil)

type mockCubeRepo struct {
	stored []entity.CubeCell
	findFn func(ctx context.Context, q entity.CubeQuery) ([]entity.CubeCell, error)
}

func (m *mockCubeRepo) ReplaceAll(_ context.Context, cells []entity.CubeCell) error {
	m.stored = cells
	return nil
}

func (m *mockCubeRepo) Find(ctx context.Context, q entity.CubeQuery) ([]entity.CubeCell, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return m.stored, nil
}
