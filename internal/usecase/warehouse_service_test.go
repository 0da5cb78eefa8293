package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acme-explorer-service/internal/domain/entity"
)

var (
	admin    = entity.Actor{ID: "root", Role: entity.RoleAdmin}
	explorer = entity.Actor{ID: "explorer-e", Role: entity.RoleExplorer}
)

func newWarehouseService(t *testing.T, indicators *mockIndicatorRepo, analytics *mockAnalyticsRepo, cube *mockCubeRepo) *WarehouseService {
	scheduler := newScheduler(t, &recordingBuilder{}, "everyHour", false)
	svc := NewWarehouseService(indicators, analytics, cube, scheduler, newTestLogger())
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestWarehouseService_AdminOnly(t *testing.T) {
	svc := newWarehouseService(t, &mockIndicatorRepo{}, &mockAnalyticsRepo{}, &mockCubeRepo{})
	ctx := context.Background()

	_, err := svc.ListIndicators(ctx, explorer)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = svc.LatestIndicator(ctx, explorer)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = svc.ChangeRebuildPeriod(ctx, explorer, "everyMinute")
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = svc.RebuildCube(ctx, explorer)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	_, err = svc.FindCube(ctx, explorer, entity.CubeQuery{})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestWarehouseService_LatestIndicator(t *testing.T) {
	indicators := &mockIndicatorRepo{}
	svc := newWarehouseService(t, indicators, &mockAnalyticsRepo{}, &mockCubeRepo{})

	_, err := svc.LatestIndicator(context.Background(), admin)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	indicators.latest = &entity.Indicator{ID: "ind-2"}
	ind, err := svc.LatestIndicator(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, "ind-2", ind.ID)
}

func TestWarehouseService_ListIndicatorsNewestFirst(t *testing.T) {
	indicators := &mockIndicatorRepo{}
	svc := newWarehouseService(t, indicators, &mockAnalyticsRepo{}, &mockCubeRepo{})

	empty, err := svc.ListIndicators(context.Background(), admin)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	indicators.inserted = []*entity.Indicator{{ID: "old"}, {ID: "new"}}
	list, err := svc.ListIndicators(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
}

func TestWarehouseService_ChangeRebuildPeriod(t *testing.T) {
	svc := newWarehouseService(t, &mockIndicatorRepo{}, &mockAnalyticsRepo{}, &mockCubeRepo{})

	p, err := svc.ChangeRebuildPeriod(context.Background(), admin, "everyTenSeconds")
	require.NoError(t, err)
	assert.Equal(t, EveryTenSeconds, p)

	_, err = svc.ChangeRebuildPeriod(context.Background(), admin, "hourly")
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestWarehouseService_RebuildCubeCoversEveryPeriod(t *testing.T) {
	var calls atomic.Int32
	analytics := &mockAnalyticsRepo{spendingFn: func(_ context.Context, p entity.CubePeriod) ([]entity.CubeCell, error) {
		calls.Add(1)
		return []entity.CubeCell{{Period: p.Keyword, Explorer: "explorer-e", TotalSpent: 10}}, nil
	}}
	cube := &mockCubeRepo{}
	svc := newWarehouseService(t, &mockIndicatorRepo{}, analytics, cube)

	n, err := svc.RebuildCube(context.Background(), admin)
	require.NoError(t, err)

	assert.Equal(t, int32(39), calls.Load())
	assert.Equal(t, 39, n)
	require.Len(t, cube.stored, 39)
	assert.Equal(t, "Y01", cube.stored[0].Period)
	assert.Equal(t, "M36", cube.stored[38].Period)
}

func TestWarehouseService_RebuildCubeFailureKeepsPreviousCube(t *testing.T) {
	analytics := &mockAnalyticsRepo{spendingFn: func(_ context.Context, p entity.CubePeriod) ([]entity.CubeCell, error) {
		if p.Keyword == "M12" {
			return nil, errors.New("timeout")
		}
		return nil, nil
	}}
	previous := []entity.CubeCell{{Period: "Y01", Explorer: "x", TotalSpent: 1}}
	cube := &mockCubeRepo{stored: previous}
	svc := newWarehouseService(t, &mockIndicatorRepo{}, analytics, cube)

	_, err := svc.RebuildCube(context.Background(), admin)
	require.Error(t, err)
	assert.Equal(t, previous, cube.stored)
}

func TestWarehouseService_FindCube(t *testing.T) {
	var got entity.CubeQuery
	cube := &mockCubeRepo{findFn: func(_ context.Context, q entity.CubeQuery) ([]entity.CubeCell, error) {
		got = q
		return nil, nil
	}}
	svc := newWarehouseService(t, &mockIndicatorRepo{}, &mockAnalyticsRepo{}, cube)

	_, err := svc.FindCube(context.Background(), admin, entity.CubeQuery{Operator: entity.CubeOpGt})
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	cells, err := svc.FindCube(context.Background(), admin, entity.CubeQuery{Period: "M01", Operator: entity.CubeOpGte, Value: ptr(100.0)})
	require.NoError(t, err)
	assert.NotNil(t, cells)
	assert.Equal(t, "M01", got.Period)
}
