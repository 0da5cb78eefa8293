package repository

import (
	"context"
	"errors"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIndicatorRepository is the append-only indicator history in MongoDB
type MongoIndicatorRepository struct {
	collection *mongo.Collection
}

type priceStatisticsDocument struct {
	AvgPrice float64 `bson:"avgPrice"`
	MinPrice float64 `bson:"minPrice"`
	MaxPrice float64 `bson:"maxPrice"`
	StdPrice float64 `bson:"stdPrice"`
}

type countStatisticsDocument struct {
	AvgCount float64 `bson:"avgCount"`
	MinCount float64 `bson:"minCount"`
	MaxCount float64 `bson:"maxCount"`
	StdCount float64 `bson:"stdCount"`
}

type keywordCountDocument struct {
	Keyword string `bson:"keyword"`
	Count   int64  `bson:"count"`
}

type finderStatisticsDocument struct {
	AvgMinPrice float64                `bson:"avgMinPrice"`
	AvgMaxPrice float64                `bson:"avgMaxPrice"`
	TopKeywords []keywordCountDocument `bson:"topKeywords"`
}

type stateRatioDocument struct {
	Status string  `bson:"status"`
	Ratio  float64 `bson:"ratio"`
}

type indicatorDocument struct {
	ID                      primitive.ObjectID       `bson:"_id,omitempty"`
	TripsPricesStatistics   priceStatisticsDocument  `bson:"tripsPricesStatistics"`
	TripsManagersStatistics countStatisticsDocument  `bson:"tripsManagersStatistics"`
	FinderStatistics        finderStatisticsDocument `bson:"finderStatistics"`
	ApplicationStatistics   countStatisticsDocument  `bson:"applicationStatistics"`
	RatioOfApplications     []stateRatioDocument     `bson:"ratioOfApplications"`
	ComputationMoment       time.Time                `bson:"computationMoment"`
	RebuildPeriod           string                   `bson:"rebuildPeriod"`
}

// NewMongoIndicatorRepository creates a new indicator repository
func NewMongoIndicatorRepository(db *mongo.Database) repository.IndicatorRepository {
	return &MongoIndicatorRepository{
		collection: db.Collection(indicatorsCollection),
	}
}

func indicatorToDocument(ind *entity.Indicator) indicatorDocument {
	keywords := make([]keywordCountDocument, 0, len(ind.FinderStatistics.TopKeywords))
	for _, k := range ind.FinderStatistics.TopKeywords {
		keywords = append(keywords, keywordCountDocument(k))
	}
	ratios := make([]stateRatioDocument, 0, len(ind.RatioOfApplications))
	for _, r := range ind.RatioOfApplications {
		ratios = append(ratios, stateRatioDocument(r))
	}

	return indicatorDocument{
		TripsPricesStatistics:   priceStatisticsDocument(ind.TripsPricesStatistics),
		TripsManagersStatistics: countStatisticsDocument(ind.TripsManagersStatistics),
		FinderStatistics: finderStatisticsDocument{
			AvgMinPrice: ind.FinderStatistics.AvgMinPrice,
			AvgMaxPrice: ind.FinderStatistics.AvgMaxPrice,
			TopKeywords: keywords,
		},
		ApplicationStatistics: countStatisticsDocument(ind.ApplicationStatistics),
		RatioOfApplications:   ratios,
		ComputationMoment:     ind.ComputationMoment,
		RebuildPeriod:         ind.RebuildPeriod,
	}
}

func (d indicatorDocument) toEntity() *entity.Indicator {
	keywords := make([]entity.KeywordCount, 0, len(d.FinderStatistics.TopKeywords))
	for _, k := range d.FinderStatistics.TopKeywords {
		keywords = append(keywords, entity.KeywordCount(k))
	}
	ratios := make([]entity.StateRatio, 0, len(d.RatioOfApplications))
	for _, r := range d.RatioOfApplications {
		ratios = append(ratios, entity.StateRatio(r))
	}

	return &entity.Indicator{
		ID:                      d.ID.Hex(),
		TripsPricesStatistics:   entity.PriceStatistics(d.TripsPricesStatistics),
		TripsManagersStatistics: entity.CountStatistics(d.TripsManagersStatistics),
		FinderStatistics: entity.FinderStatistics{
			AvgMinPrice: d.FinderStatistics.AvgMinPrice,
			AvgMaxPrice: d.FinderStatistics.AvgMaxPrice,
			TopKeywords: keywords,
		},
		ApplicationStatistics: entity.CountStatistics(d.ApplicationStatistics),
		RatioOfApplications:   ratios,
		ComputationMoment:     d.ComputationMoment.UTC(),
		RebuildPeriod:         d.RebuildPeriod,
	}
}

// Insert appends a snapshot and sets its id
func (r *MongoIndicatorRepository) Insert(ctx context.Context, ind *entity.Indicator) error {
	doc := indicatorToDocument(ind)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translateMongoError(err, "insert indicator")
	}
	ind.ID = doc.ID.Hex()
	return nil
}

// ListAll returns every snapshot, most recent first
func (r *MongoIndicatorRepository) ListAll(ctx context.Context) ([]*entity.Indicator, error) {
	opts := options.Find().SetSort(bson.D{{Key: "computationMoment", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translateMongoError(err, "list indicators")
	}
	defer cursor.Close(ctx)

	var docs []indicatorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err, "decode indicators")
	}

	out := make([]*entity.Indicator, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// Latest returns the most recent snapshot, or nil when none exists
func (r *MongoIndicatorRepository) Latest(ctx context.Context) (*entity.Indicator, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "computationMoment", Value: -1}, {Key: "_id", Value: -1}})

	var doc indicatorDocument
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateMongoError(err, "latest indicator")
	}
	return doc.toEntity(), nil
}
