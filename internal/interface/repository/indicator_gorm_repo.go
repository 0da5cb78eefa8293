package repository

import (
	"context"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIndicatorRepository keeps the indicator history in a relational table
type GormIndicatorRepository struct {
	db *gorm.DB
}

// NewGormIndicatorRepository creates a new GORM indicator repository
func NewGormIndicatorRepository(db *gorm.DB) repository.IndicatorRepository {
	return &GormIndicatorRepository{
		db: db,
	}
}

// Indicators GORM model for database mapping. Aggregate blocks are stored as JSON.
type Indicators struct {
	ID                      uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	TripsPricesStatistics   entity.PriceStatistics  `gorm:"column:trips_prices_statistics;type:jsonb;serializer:json"`
	TripsManagersStatistics entity.CountStatistics  `gorm:"column:trips_managers_statistics;type:jsonb;serializer:json"`
	FinderStatistics        entity.FinderStatistics `gorm:"column:finder_statistics;type:jsonb;serializer:json"`
	ApplicationStatistics   entity.CountStatistics  `gorm:"column:application_statistics;type:jsonb;serializer:json"`
	RatioOfApplications     []entity.StateRatio     `gorm:"column:ratio_of_applications;type:jsonb;serializer:json"`
	ComputationMoment       time.Time               `gorm:"column:computation_moment;index:idx_indicators_moment,sort:desc"`
	RebuildPeriod           string                  `gorm:"column:rebuild_period"`
	CreatedAt               time.Time               `gorm:"column:created_at"`
}

// TableName overrides the default table name
func (Indicators) TableName() string {
	return "indicators"
}

// MigrateIndicatorSchema creates or updates the indicators table
func MigrateIndicatorSchema(db *gorm.DB) error {
	return db.AutoMigrate(&Indicators{})
}

func (m Indicators) toEntity() *entity.Indicator {
	ratios := m.RatioOfApplications
	if ratios == nil {
		ratios = []entity.StateRatio{}
	}
	finder := m.FinderStatistics
	if finder.TopKeywords == nil {
		finder.TopKeywords = []entity.KeywordCount{}
	}
	return &entity.Indicator{
		ID:                      m.ID.String(),
		TripsPricesStatistics:   m.TripsPricesStatistics,
		TripsManagersStatistics: m.TripsManagersStatistics,
		FinderStatistics:        finder,
		ApplicationStatistics:   m.ApplicationStatistics,
		RatioOfApplications:     ratios,
		ComputationMoment:       m.ComputationMoment.UTC(),
		RebuildPeriod:           m.RebuildPeriod,
	}
}

// Insert appends a snapshot and sets its id
func (r *GormIndicatorRepository) Insert(ctx context.Context, ind *entity.Indicator) error {
	model := Indicators{
		ID:                      uuid.New(),
		TripsPricesStatistics:   ind.TripsPricesStatistics,
		TripsManagersStatistics: ind.TripsManagersStatistics,
		FinderStatistics:        ind.FinderStatistics,
		ApplicationStatistics:   ind.ApplicationStatistics,
		RatioOfApplications:     ind.RatioOfApplications,
		ComputationMoment:       ind.ComputationMoment,
		RebuildPeriod:           ind.RebuildPeriod,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	ind.ID = model.ID.String()
	return nil
}

// ListAll returns every snapshot, most recent first
func (r *GormIndicatorRepository) ListAll(ctx context.Context) ([]*entity.Indicator, error) {
	var rows []Indicators
	result := r.db.WithContext(ctx).Order("computation_moment DESC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	// Convert to domain entities
	out := make([]*entity.Indicator, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Latest returns the most recent snapshot, or nil when none exists
func (r *GormIndicatorRepository) Latest(ctx context.Context) (*entity.Indicator, error) {
	var rows []Indicators
	result := r.db.WithContext(ctx).Order("computation_moment DESC").Limit(1).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toEntity(), nil
}
