package repository

import (
	"context"
)

// ApplicationRepository defines the read operations the trip lifecycle needs on applications
type ApplicationRepository interface {
	CountByTripAndState(ctx context.Context, tripID string, state string) (int64, error)
}
