package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
)

// IndicatorRepository is the append-only history of data warehouse snapshots
type IndicatorRepository interface {
	Insert(ctx context.Context, indicator *entity.Indicator) error
	// ListAll returns every snapshot, most recent computation first
	ListAll(ctx context.Context) ([]*entity.Indicator, error)
	// Latest returns nil, nil when nothing has been computed yet
	Latest(ctx context.Context) (*entity.Indicator, error)
}
