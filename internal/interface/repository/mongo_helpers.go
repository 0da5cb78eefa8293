package repository

import (
	"errors"
	"fmt"

	"acme-explorer-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// parseObjectID converts a hex id. Malformed ids cannot exist in the store so
// they are reported as not found.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", entity.ErrNotFound, id)
	}
	return oid, nil
}

// translateMongoError maps driver errors onto the domain taxonomy
func translateMongoError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %s", entity.ErrNotFound, what)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s: %v", entity.ErrConflict, what, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

func sortValue(desc bool) int {
	if desc {
		return -1
	}
	return 1
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
