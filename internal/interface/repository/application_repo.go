package repository

import (
	"context"

	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoApplicationRepository implements ApplicationRepository
type MongoApplicationRepository struct {
	collection *mongo.Collection
}

// NewMongoApplicationRepository creates a new application repository
func NewMongoApplicationRepository(db *mongo.Database) repository.ApplicationRepository {
	return &MongoApplicationRepository{
		collection: db.Collection(applicationsCollection),
	}
}

// CountByTripAndState counts a trip's applications in one state
func (r *MongoApplicationRepository) CountByTripAndState(ctx context.Context, tripID string, state string) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"trip": tripID, "state": state})
	if err != nil {
		return 0, translateMongoError(err, "count applications")
	}
	return n, nil
}
