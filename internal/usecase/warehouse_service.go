package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/policy"
	"acme-explorer-service/internal/domain/repository"
	"acme-explorer-service/pkg/logger"
)

const cubeConcurrency = 4

// RebuildScheduler is the part of the scheduler the admin surface drives
type RebuildScheduler interface {
	ChangeSchedule(period string) error
	CurrentPeriod() RebuildPeriod
}

// WarehouseService exposes indicator history, the rebuild period and the spending cube to admins
type WarehouseService struct {
	indicators repository.IndicatorRepository
	analytics  repository.AnalyticsRepository
	cube       repository.DataCubeRepository
	scheduler  RebuildScheduler
	logger     logger.Logger
	now        func() time.Time
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(
	indicators repository.IndicatorRepository,
	analytics repository.AnalyticsRepository,
	cube repository.DataCubeRepository,
	scheduler RebuildScheduler,
	logger logger.Logger,
) *WarehouseService {
	return &WarehouseService{
		indicators: indicators,
		analytics:  analytics,
		cube:       cube,
		scheduler:  scheduler,
		logger:     logger,
		now:        time.Now,
	}
}

// ListIndicators returns every snapshot, newest first
func (s *WarehouseService) ListIndicators(ctx context.Context, actor entity.Actor) ([]*entity.Indicator, error) {
	if !policy.CanManageWarehouse(actor) {
		return nil, fmt.Errorf("%w: only admins can read indicators", entity.ErrForbidden)
	}
	list, err := s.indicators.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}
	if list == nil {
		list = []*entity.Indicator{}
	}
	return list, nil
}

// LatestIndicator returns the most recent snapshot or ErrNotFound when none exists yet
func (s *WarehouseService) LatestIndicator(ctx context.Context, actor entity.Actor) (*entity.Indicator, error) {
	if !policy.CanManageWarehouse(actor) {
		return nil, fmt.Errorf("%w: only admins can read indicators", entity.ErrForbidden)
	}
	ind, err := s.indicators.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest indicator: %w", err)
	}
	if ind == nil {
		return nil, fmt.Errorf("%w: no indicator computed yet", entity.ErrNotFound)
	}
	return ind, nil
}

// ChangeRebuildPeriod reconfigures the scheduler and returns the new period
func (s *WarehouseService) ChangeRebuildPeriod(ctx context.Context, actor entity.Actor, period string) (RebuildPeriod, error) {
	if !policy.CanManageWarehouse(actor) {
		return "", fmt.Errorf("%w: only admins can change the rebuild period", entity.ErrForbidden)
	}
	if err := s.scheduler.ChangeSchedule(period); err != nil {
		return "", err
	}
	return s.scheduler.CurrentPeriod(), nil
}

// RebuildCube recomputes explorer spending for every period and replaces the stored cube
func (s *WarehouseService) RebuildCube(ctx context.Context, actor entity.Actor) (int, error) {
	if !policy.CanManageWarehouse(actor) {
		return 0, fmt.Errorf("%w: only admins can rebuild the cube", entity.ErrForbidden)
	}

	periods := entity.CubePeriods(s.now().UTC())
	results := make([][]entity.CubeCell, len(periods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cubeConcurrency)
	for i, p := range periods {
		g.Go(func() error {
			cells, err := s.analytics.SpendingByExplorer(gctx, p)
			if err != nil {
				return fmt.Errorf("spending for %s: %w", p.Keyword, err)
			}
			results[i] = cells
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to compute cube: %w", err)
	}

	var cells []entity.CubeCell
	for _, r := range results {
		cells = append(cells, r...)
	}
	if err := s.cube.ReplaceAll(ctx, cells); err != nil {
		return 0, fmt.Errorf("failed to store cube: %w", err)
	}

	s.logger.Info("Data cube rebuilt", "periods", len(periods), "cells", len(cells))
	return len(cells), nil
}

// FindCube filters the stored cube
func (s *WarehouseService) FindCube(ctx context.Context, actor entity.Actor, query entity.CubeQuery) ([]entity.CubeCell, error) {
	if !policy.CanManageWarehouse(actor) {
		return nil, fmt.Errorf("%w: only admins can read the cube", entity.ErrForbidden)
	}
	if query.Operator != "" && query.Value == nil {
		return nil, fmt.Errorf("%w: operator requires a value", entity.ErrInvalidRequest)
	}

	cells, err := s.cube.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cube: %w", err)
	}
	if cells == nil {
		cells = []entity.CubeCell{}
	}
	return cells, nil
}
