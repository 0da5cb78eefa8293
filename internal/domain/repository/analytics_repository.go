package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
)

// AnalyticsRepository computes the read-only aggregates behind an indicator.
// Every method is independent and safe to call concurrently.
type AnalyticsRepository interface {
	TripPriceStatistics(ctx context.Context) (entity.PriceStatistics, error)
	TripsPerManagerStatistics(ctx context.Context) (entity.CountStatistics, error)
	FinderStatistics(ctx context.Context, topKeywords int) (entity.FinderStatistics, error)
	ApplicationsPerTripStatistics(ctx context.Context) (entity.CountStatistics, error)
	ApplicationCountsByState(ctx context.Context) (map[string]int64, error)
	SpendingByExplorer(ctx context.Context, period entity.CubePeriod) ([]entity.CubeCell, error)
}

// DataCubeRepository stores the explorer spending cube
type DataCubeRepository interface {
	ReplaceAll(ctx context.Context, cells []entity.CubeCell) error
	Find(ctx context.Context, query entity.CubeQuery) ([]entity.CubeCell, error)
}
