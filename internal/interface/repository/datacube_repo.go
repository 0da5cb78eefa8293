package repository

import (
	"context"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDataCubeRepository stores explorer spending cells
type MongoDataCubeRepository struct {
	collection *mongo.Collection
}

type cubeCellDocument struct {
	Period     string  `bson:"period"`
	Explorer   string  `bson:"explorer"`
	TotalSpent float64 `bson:"totalSpent"`
}

// NewMongoDataCubeRepository creates a new data cube repository
func NewMongoDataCubeRepository(db *mongo.Database) repository.DataCubeRepository {
	return &MongoDataCubeRepository{
		collection: db.Collection(dataCubeCollection),
	}
}

// ReplaceAll drops the previous cube and stores cells
func (r *MongoDataCubeRepository) ReplaceAll(ctx context.Context, cells []entity.CubeCell) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return translateMongoError(err, "clear data cube")
	}
	if len(cells) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(cells))
	for _, c := range cells {
		docs = append(docs, cubeCellDocument(c))
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return translateMongoError(err, "insert data cube")
	}
	return nil
}

// BuildCubeFilter translates a cube query into a Mongo filter
func BuildCubeFilter(q entity.CubeQuery) bson.M {
	filter := bson.M{}
	if q.Period != "" {
		filter["period"] = q.Period
	}
	if q.Explorer != "" {
		filter["explorer"] = q.Explorer
	}
	if q.Operator != "" && q.Value != nil {
		filter["totalSpent"] = bson.M{"$" + string(q.Operator): *q.Value}
	}
	return filter
}

// Find returns the cells matching q ordered by period then explorer
func (r *MongoDataCubeRepository) Find(ctx context.Context, q entity.CubeQuery) ([]entity.CubeCell, error) {
	opts := options.Find().SetSort(bson.D{{Key: "period", Value: 1}, {Key: "explorer", Value: 1}})

	cursor, err := r.collection.Find(ctx, BuildCubeFilter(q), opts)
	if err != nil {
		return nil, translateMongoError(err, "find data cube")
	}
	defer cursor.Close(ctx)

	var docs []cubeCellDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err, "decode data cube")
	}

	cells := make([]entity.CubeCell, 0, len(docs))
	for _, d := range docs {
		cells = append(cells, entity.CubeCell(d))
	}
	return cells, nil
}
