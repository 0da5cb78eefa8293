package repository

import (
	"context"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfigurationRepository stores runtime settings as key/value documents
type MongoConfigurationRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

type configurationDocument struct {
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoConfigurationRepository creates a new configuration repository
func NewMongoConfigurationRepository(db *mongo.Database) repository.ConfigurationRepository {
	return &MongoConfigurationRepository{
		collection: db.Collection(configurationsCollection),
		now:        time.Now,
	}
}

// List returns every stored setting ordered by key
func (r *MongoConfigurationRepository) List(ctx context.Context) ([]entity.ConfigurationEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "key", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translateMongoError(err, "list configuration")
	}
	defer cursor.Close(ctx)

	var docs []configurationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err, "decode configuration")
	}

	entries := make([]entity.ConfigurationEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, entity.ConfigurationEntry{
			Key:       d.Key,
			Value:     d.Value,
			UpdatedAt: d.UpdatedAt.UTC(),
		})
	}
	return entries, nil
}

// Set upserts one setting
func (r *MongoConfigurationRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value, "updatedAt": r.now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return translateMongoError(err, "set configuration "+key)
	}
	return nil
}
