package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
)

// TripRepository defines the interface for trip storage operations
type TripRepository interface {
	// Search runs predicate against the trip store. When the predicate has a text
	// clause the results are ordered by relevance and opts.SortField is ignored.
	Search(ctx context.Context, predicate entity.TripPredicate, opts entity.TripSearchOptions) ([]*entity.Trip, error)
	Count(ctx context.Context, predicate entity.TripPredicate) (int64, error)
	Create(ctx context.Context, trip *entity.Trip) error
	FindByID(ctx context.Context, id string) (*entity.Trip, error)
	Update(ctx context.Context, trip *entity.Trip) error
	Delete(ctx context.Context, id string) error
}
