package persistence

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"acme-explorer-service/internal/domain/repository"
	storeRepo "acme-explorer-service/internal/interface/repository"
)

// Indicator store backends
const (
	IndicatorBackendMongo    = "mongo"
	IndicatorBackendPostgres = "postgres"
)

// NewIndicatorRepository opens the snapshot store selected by backend.
// The postgres backend migrates the indicators table before returning.
func NewIndicatorRepository(backend string, db *mongo.Database, postgresURI string) (repository.IndicatorRepository, error) {
	switch backend {
	case "", IndicatorBackendMongo:
		return storeRepo.NewMongoIndicatorRepository(db), nil
	case IndicatorBackendPostgres:
		gormDB, err := NewGormDB(postgresURI)
		if err != nil {
			return nil, err
		}
		if err := storeRepo.MigrateIndicatorSchema(gormDB); err != nil {
			return nil, fmt.Errorf("failed to migrate indicators table: %w", err)
		}
		return storeRepo.NewGormIndicatorRepository(gormDB), nil
	default:
		return nil, fmt.Errorf("unknown indicator backend %q", backend)
	}
}
