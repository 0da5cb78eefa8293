package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
)

// ConfigurationRepository reads and writes operator-tunable runtime settings
type ConfigurationRepository interface {
	List(ctx context.Context) ([]entity.ConfigurationEntry, error)
	Set(ctx context.Context, key, value string) error
}
