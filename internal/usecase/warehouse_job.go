package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
	"acme-explorer-service/pkg/metrics"
	"acme-explorer-service/pkg/utils"
)

// TopKeywordsLimit is the size of the finder keyword popularity ranking
const TopKeywordsLimit = 10

// WarehouseJob computes and stores one indicator snapshot
type WarehouseJob struct {
	analytics  repository.AnalyticsRepository
	indicators repository.IndicatorRepository
	metrics    *metrics.Metrics
	logger     logger.Logger
	now        func() time.Time
}

// NewWarehouseJob creates a new warehouse job
func NewWarehouseJob(
	analytics repository.AnalyticsRepository,
	indicators repository.IndicatorRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *WarehouseJob {
	return &WarehouseJob{
		analytics:  analytics,
		indicators: indicators,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Compute runs the five aggregates concurrently. The first failure cancels the
// others and no indicator is returned.
func (j *WarehouseJob) Compute(ctx context.Context, period RebuildPeriod) (*entity.Indicator, error) {
	ind := &entity.Indicator{RebuildPeriod: string(period)}
	var stateCounts map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := j.analytics.TripPriceStatistics(gctx)
		if err != nil {
			return fmt.Errorf("trip price statistics: %w", err)
		}
		ind.TripsPricesStatistics = stats
		return nil
	})
	g.Go(func() error {
		stats, err := j.analytics.TripsPerManagerStatistics(gctx)
		if err != nil {
			return fmt.Errorf("trips per manager statistics: %w", err)
		}
		ind.TripsManagersStatistics = stats
		return nil
	})
	g.Go(func() error {
		stats, err := j.analytics.FinderStatistics(gctx, TopKeywordsLimit)
		if err != nil {
			return fmt.Errorf("finder statistics: %w", err)
		}
		ind.FinderStatistics = stats
		return nil
	})
	g.Go(func() error {
		stats, err := j.analytics.ApplicationsPerTripStatistics(gctx)
		if err != nil {
			return fmt.Errorf("applications per trip statistics: %w", err)
		}
		ind.ApplicationStatistics = stats
		return nil
	})
	g.Go(func() error {
		counts, err := j.analytics.ApplicationCountsByState(gctx)
		if err != nil {
			return fmt.Errorf("application state counts: %w", err)
		}
		stateCounts = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ind.RatioOfApplications = ComputeStateRatios(stateCounts)
	if ind.FinderStatistics.TopKeywords == nil {
		ind.FinderStatistics.TopKeywords = []entity.KeywordCount{}
	}
	ind.ComputationMoment = j.now().UTC()
	return ind, nil
}

// Run computes a snapshot and appends it to the indicator store
func (j *WarehouseJob) Run(ctx context.Context, period RebuildPeriod) (*entity.Indicator, error) {
	start := time.Now()
	defer func() {
		j.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}()

	ind, err := j.Compute(ctx, period)
	if err != nil {
		j.metrics.WarehouseTicks.WithLabelValues("failed").Inc()
		j.logger.Error("Discarding indicator snapshot", "period", period, "error", err)
		return nil, fmt.Errorf("failed to compute indicator: %w", err)
	}

	if err := j.indicators.Insert(ctx, ind); err != nil {
		j.metrics.WarehouseTicks.WithLabelValues("failed").Inc()
		j.logger.Error("Failed to store indicator snapshot", "period", period, "error", err)
		return nil, fmt.Errorf("failed to store indicator: %w", err)
	}

	j.metrics.WarehouseTicks.WithLabelValues("stored").Inc()
	j.logger.Info("Indicator snapshot stored",
		"indicatorID", ind.ID,
		"period", period,
		"duration", time.Since(start))
	return ind, nil
}

// ComputeStateRatios converts per-state application counts into percentages
// rounded to two decimals, ordered by state name. No applications yields no ratios.
func ComputeStateRatios(counts map[string]int64) []entity.StateRatio {
	var total int64
	for _, c := range counts {
		total += c
	}

	ratios := make([]entity.StateRatio, 0, len(counts))
	if total == 0 {
		return ratios
	}

	for state, c := range counts {
		if c == 0 {
			continue
		}
		ratios = append(ratios, entity.StateRatio{
			Status: state,
			Ratio:  utils.Round2(float64(c) / float64(total) * 100),
		})
	}
	sort.Slice(ratios, func(a, b int) bool { return ratios[a].Status < ratios[b].Status })
	return ratios
}
