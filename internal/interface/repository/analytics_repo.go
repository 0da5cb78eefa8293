package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAnalyticsRepository runs the warehouse aggregation pipelines.
// Every method reads a single collection and is safe to run concurrently.
type MongoAnalyticsRepository struct {
	trips        *mongo.Collection
	finders      *mongo.Collection
	applications *mongo.Collection
}

// NewMongoAnalyticsRepository creates a new analytics repository
func NewMongoAnalyticsRepository(db *mongo.Database) repository.AnalyticsRepository {
	return &MongoAnalyticsRepository{
		trips:        db.Collection(tripsCollection),
		finders:      db.Collection(findersCollection),
		applications: db.Collection(applicationsCollection),
	}
}

// summary fields are pointers because $avg and friends yield null on empty input
type statsResult struct {
	Avg *float64 `bson:"avg"`
	Min *float64 `bson:"min"`
	Max *float64 `bson:"max"`
	Std *float64 `bson:"std"`
}

func summarize(field string) bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "avg", Value: bson.M{"$avg": field}},
		{Key: "min", Value: bson.M{"$min": field}},
		{Key: "max", Value: bson.M{"$max": field}},
		{Key: "std", Value: bson.M{"$stdDevPop": field}},
	}}}
}

// TripPricePipeline summarises the price of every trip
func TripPricePipeline() mongo.Pipeline {
	return mongo.Pipeline{summarize("$price")}
}

// CountPerGroupPipeline counts documents per groupField and summarises those counts
func CountPerGroupPipeline(groupField string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupField},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
		summarize("$count"),
	}
}

// FinderStatisticsPipeline averages finder price bounds and ranks non-empty keywords
func FinderStatisticsPipeline(topKeywords int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "prices", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "avgMinPrice", Value: bson.M{"$avg": "$minPrice"}},
					{Key: "avgMaxPrice", Value: bson.M{"$avg": "$maxPrice"}},
				}}},
			}},
			{Key: "keywords", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.M{"keyword": bson.M{"$nin": bson.A{nil, ""}}}}},
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$keyword"},
					{Key: "count", Value: bson.M{"$sum": 1}},
				}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
				bson.D{{Key: "$limit", Value: int64(topKeywords)}},
			}},
		}}},
	}
}

// StateCountPipeline counts applications per state
func StateCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$state"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}
}

// SpendingPipeline totals the price of the trips each explorer was accepted on since period.Since
func SpendingPipeline(period entity.CubePeriod) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "state", Value: entity.ApplicationAccepted},
			{Key: "updatedAt", Value: bson.M{"$gte": period.Since}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "trips"},
			{Key: "let", Value: bson.M{"tripId": "$trip"}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$tripId"}}}}},
				{{Key: "$project", Value: bson.M{"price": 1}}},
			}},
			{Key: "as", Value: "tripInfo"},
		}}},
		{{Key: "$unwind", Value: "$tripInfo"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$explorer"},
			{Key: "totalSpent", Value: bson.M{"$sum": "$tripInfo.price"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func (r *MongoAnalyticsRepository) summary(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, what string) (statsResult, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return statsResult{}, translateMongoError(err, what)
	}
	defer cursor.Close(ctx)

	var rows []statsResult
	if err := cursor.All(ctx, &rows); err != nil {
		return statsResult{}, translateMongoError(err, what)
	}
	if len(rows) == 0 {
		return statsResult{}, nil
	}
	return rows[0], nil
}

// TripPriceStatistics returns avg/min/max/population stddev of trip prices
func (r *MongoAnalyticsRepository) TripPriceStatistics(ctx context.Context) (entity.PriceStatistics, error) {
	s, err := r.summary(ctx, r.trips, TripPricePipeline(), "trip price statistics")
	if err != nil {
		return entity.PriceStatistics{}, err
	}
	return entity.PriceStatistics{
		AvgPrice: derefFloat(s.Avg),
		MinPrice: derefFloat(s.Min),
		MaxPrice: derefFloat(s.Max),
		StdPrice: derefFloat(s.Std),
	}, nil
}

// TripsPerManagerStatistics summarises how many trips each manager owns
func (r *MongoAnalyticsRepository) TripsPerManagerStatistics(ctx context.Context) (entity.CountStatistics, error) {
	s, err := r.summary(ctx, r.trips, CountPerGroupPipeline("$manager"), "trips per manager statistics")
	if err != nil {
		return entity.CountStatistics{}, err
	}
	return s.toCountStatistics(), nil
}

// ApplicationsPerTripStatistics summarises how many applications each trip received
func (r *MongoAnalyticsRepository) ApplicationsPerTripStatistics(ctx context.Context) (entity.CountStatistics, error) {
	s, err := r.summary(ctx, r.applications, CountPerGroupPipeline("$trip"), "applications per trip statistics")
	if err != nil {
		return entity.CountStatistics{}, err
	}
	return s.toCountStatistics(), nil
}

func (s statsResult) toCountStatistics() entity.CountStatistics {
	return entity.CountStatistics{
		AvgCount: derefFloat(s.Avg),
		MinCount: derefFloat(s.Min),
		MaxCount: derefFloat(s.Max),
		StdCount: derefFloat(s.Std),
	}
}

type finderFacetResult struct {
	Prices []struct {
		AvgMinPrice *float64 `bson:"avgMinPrice"`
		AvgMaxPrice *float64 `bson:"avgMaxPrice"`
	} `bson:"prices"`
	Keywords []struct {
		Keyword string `bson:"_id"`
		Count   int64  `bson:"count"`
	} `bson:"keywords"`
}

// FinderStatistics averages finder price bounds and ranks the most used keywords
func (r *MongoAnalyticsRepository) FinderStatistics(ctx context.Context, topKeywords int) (entity.FinderStatistics, error) {
	cursor, err := r.finders.Aggregate(ctx, FinderStatisticsPipeline(topKeywords))
	if err != nil {
		return entity.FinderStatistics{}, translateMongoError(err, "finder statistics")
	}
	defer cursor.Close(ctx)

	var rows []finderFacetResult
	if err := cursor.All(ctx, &rows); err != nil {
		return entity.FinderStatistics{}, translateMongoError(err, "finder statistics")
	}

	stats := entity.FinderStatistics{TopKeywords: []entity.KeywordCount{}}
	if len(rows) == 0 {
		return stats, nil
	}
	if len(rows[0].Prices) > 0 {
		stats.AvgMinPrice = derefFloat(rows[0].Prices[0].AvgMinPrice)
		stats.AvgMaxPrice = derefFloat(rows[0].Prices[0].AvgMaxPrice)
	}
	for _, k := range rows[0].Keywords {
		stats.TopKeywords = append(stats.TopKeywords, entity.KeywordCount{Keyword: k.Keyword, Count: k.Count})
	}
	return stats, nil
}

// ApplicationCountsByState counts applications per state
func (r *MongoAnalyticsRepository) ApplicationCountsByState(ctx context.Context) (map[string]int64, error) {
	cursor, err := r.applications.Aggregate(ctx, StateCountPipeline())
	if err != nil {
		return nil, translateMongoError(err, "application state counts")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		State string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translateMongoError(err, "application state counts")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}

// SpendingByExplorer totals accepted spending per explorer within one cube period
func (r *MongoAnalyticsRepository) SpendingByExplorer(ctx context.Context, period entity.CubePeriod) ([]entity.CubeCell, error) {
	cursor, err := r.applications.Aggregate(ctx, SpendingPipeline(period))
	if err != nil {
		return nil, translateMongoError(err, "spending "+period.Keyword)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Explorer   string  `bson:"_id"`
		TotalSpent float64 `bson:"totalSpent"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, translateMongoError(err, "spending "+period.Keyword)
	}

	cells := make([]entity.CubeCell, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, entity.CubeCell{
			Period:     period.Keyword,
			Explorer:   row.Explorer,
			TotalSpent: row.TotalSpent,
		})
	}
	return cells, nil
}
