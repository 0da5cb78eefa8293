package repository

import (
	"context"
	"regexp"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFinderRepository implements the FinderRepository interface
type MongoFinderRepository struct {
	collection *mongo.Collection
}

// finderDocument is the stored shape of a finder
type finderDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Actor     string             `bson:"actor"`
	Name      string             `bson:"name"`
	Keyword   *string            `bson:"keyword"`
	MinPrice  *float64           `bson:"minPrice"`
	MaxPrice  *float64           `bson:"maxPrice"`
	StartDate *time.Time         `bson:"startDate"`
	EndDate   *time.Time         `bson:"endDate"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// NewMongoFinderRepository creates a new MongoDB finder repository
func NewMongoFinderRepository(db *mongo.Database) repository.FinderRepository {
	return &MongoFinderRepository{
		collection: db.Collection(findersCollection),
	}
}

func finderToDocument(f *entity.Finder) finderDocument {
	return finderDocument{
		Actor:     f.ActorID,
		Name:      f.Name,
		Keyword:   f.Keyword,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (d finderDocument) toEntity() *entity.Finder {
	return &entity.Finder{
		ID:        d.ID.Hex(),
		ActorID:   d.Actor,
		Name:      d.Name,
		Keyword:   d.Keyword,
		MinPrice:  d.MinPrice,
		MaxPrice:  d.MaxPrice,
		StartDate: utcPtr(d.StartDate),
		EndDate:   utcPtr(d.EndDate),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// Create inserts a finder and sets its generated id
func (r *MongoFinderRepository) Create(ctx context.Context, finder *entity.Finder) error {
	doc := finderToDocument(finder)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translateMongoError(err, "insert finder")
	}
	finder.ID = doc.ID.Hex()
	return nil
}

// FindByID finds a finder by ID
func (r *MongoFinderRepository) FindByID(ctx context.Context, id string) (*entity.Finder, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc finderDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "finder "+id)
	}
	return doc.toEntity(), nil
}

// BuildFinderListFilter translates a listing query into a Mongo filter
func BuildFinderListFilter(query entity.FinderListQuery) bson.M {
	filter := bson.M{}
	if query.ActorID != "" {
		filter["actor"] = query.ActorID
	}
	if query.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query.Name), Options: "i"}
	}
	if query.Keyword != "" {
		filter["keyword"] = primitive.Regex{Pattern: regexp.QuoteMeta(query.Keyword), Options: "i"}
	}
	return filter
}

// List returns one page of finders and the total matching count
func (r *MongoFinderRepository) List(ctx context.Context, query entity.FinderListQuery) ([]*entity.Finder, int64, error) {
	filter := BuildFinderListFilter(query)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateMongoError(err, "count finders")
	}

	sortField := query.Page.SortField
	if sortField == "" {
		sortField = entity.DefaultSortField
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortValue(query.Page.SortDesc)}, {Key: "_id", Value: 1}}).
		SetSkip(int64(query.Page.Skip()))
	if query.Page.PerPage > 0 {
		opts.SetLimit(int64(query.Page.PerPage))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateMongoError(err, "find finders")
	}
	defer cursor.Close(ctx)

	var docs []finderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translateMongoError(err, "decode finders")
	}

	finders := make([]*entity.Finder, 0, len(docs))
	for _, d := range docs {
		finders = append(finders, d.toEntity())
	}
	return finders, total, nil
}

// Update replaces the stored finder
func (r *MongoFinderRepository) Update(ctx context.Context, finder *entity.Finder) error {
	oid, err := parseObjectID(finder.ID)
	if err != nil {
		return err
	}

	doc := finderToDocument(finder)
	doc.ID = oid

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return translateMongoError(err, "update finder")
	}
	if result.MatchedCount == 0 {
		return translateMongoError(mongo.ErrNoDocuments, "finder "+finder.ID)
	}
	return nil
}

// Delete removes a finder
func (r *MongoFinderRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateMongoError(err, "delete finder")
	}
	if result.DeletedCount == 0 {
		return translateMongoError(mongo.ErrNoDocuments, "finder "+id)
	}
	return nil
}
