package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	tripsCollection          = "trips"
	actorsCollection         = "actors"
	findersCollection        = "finders"
	applicationsCollection   = "applications"
	configurationsCollection = "configurations"
	dataCubeCollection       = "datacube"
	indicatorsCollection     = "indicators"
)

// tripTextIndex backs every keyword search; $text fails without it.
const tripTextIndex = "trip_text"

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func mongoIndexes() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: tripsCollection,
			models: []mongo.IndexModel{
				// Tickers are unique; collisions surface as ErrConflict and are retried
				{Keys: bson.M{"ticker": 1}, Options: options.Index().SetUnique(true)},
				// Full-text search over the human readable fields
				{
					Keys: bson.D{
						{Key: "title", Value: "text"},
						{Key: "description", Value: "text"},
						{Key: "ticker", Value: "text"},
					},
					Options: options.Index().SetName(tripTextIndex),
				},
				// Public searches always filter by state, then usually by price
				{Keys: bson.D{{Key: "state", Value: 1}, {Key: "price", Value: 1}}},
				{Keys: bson.M{"manager": 1}},
			},
		},
		{
			collection: findersCollection,
			models: []mongo.IndexModel{
				// Listing by owner, newest first
				{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "createdAt", Value: -1}}},
				// Keyword popularity aggregation
				{Keys: bson.M{"keyword": 1}},
			},
		},
		{
			collection: applicationsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "trip", Value: 1}, {Key: "state", Value: 1}}},
			},
		},
		{
			collection: configurationsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.M{"key": 1}, Options: options.Index().SetUnique(true)},
			},
		},
		{
			collection: dataCubeCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "period", Value: 1}, {Key: "explorer", Value: 1}}},
			},
		},
		{
			collection: indicatorsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.M{"computationMoment": -1}},
			},
		},
	}
}

// EnsureIndexes creates the indexes the Mongo repositories rely on and stops at
// the first collection that fails. Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ci := range mongoIndexes() {
		if _, err := db.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", ci.collection, err)
		}
	}
	return nil
}
