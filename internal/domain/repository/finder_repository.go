package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
)

// FinderRepository defines the interface for finder storage operations
type FinderRepository interface {
	Create(ctx context.Context, finder *entity.Finder) error
	FindByID(ctx context.Context, id string) (*entity.Finder, error)
	List(ctx context.Context, query entity.FinderListQuery) ([]*entity.Finder, int64, error)
	Update(ctx context.Context, finder *entity.Finder) error
	Delete(ctx context.Context, id string) error
}
