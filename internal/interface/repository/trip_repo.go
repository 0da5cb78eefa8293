package repository

import (
	"context"
	"time"

	"acme-explorer-service/internal/domain/entity"
	"acme-explorer-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTripRepository implements TripRepository
type MongoTripRepository struct {
	collection *mongo.Collection
	actors     string
}

type stageDocument struct {
	ID          string  `bson:"id"`
	Title       string  `bson:"title"`
	Description string  `bson:"description"`
	Price       float64 `bson:"price"`
}

type actorDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	Name    string             `bson:"name"`
	Surname string             `bson:"surname"`
	Email   string             `bson:"email"`
}

// tripDocument is the stored shape of a trip. ManagerInfo is only filled by searches.
type tripDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Ticker          string             `bson:"ticker"`
	Title           string             `bson:"title"`
	Description     string             `bson:"description"`
	Price           float64            `bson:"price"`
	Requirements    []string           `bson:"requirements"`
	StartDate       time.Time          `bson:"startDate"`
	EndDate         time.Time          `bson:"endDate"`
	Pictures        []string           `bson:"pictures"`
	State           string             `bson:"state"`
	ReasonCancelled string             `bson:"reasonCancelled,omitempty"`
	Stages          []stageDocument    `bson:"stages"`
	Manager         string             `bson:"manager"`
	ManagerInfo     []actorDocument    `bson:"managerInfo,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// NewMongoTripRepository creates a new trip repository. Managers are populated
// from the actors collection.
func NewMongoTripRepository(db *mongo.Database) repository.TripRepository {
	return &MongoTripRepository{
		collection: db.Collection(tripsCollection),
		actors:     actorsCollection,
	}
}

func tripToDocument(t *entity.Trip) tripDocument {
	stages := make([]stageDocument, 0, len(t.Stages))
	for _, s := range t.Stages {
		stages = append(stages, stageDocument(s))
	}
	return tripDocument{
		Ticker:          t.Ticker,
		Title:           t.Title,
		Description:     t.Description,
		Price:           t.Price,
		Requirements:    t.Requirements,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		Pictures:        t.Pictures,
		State:           string(t.State),
		ReasonCancelled: t.ReasonCancelled,
		Stages:          stages,
		Manager:         t.ManagerID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (d tripDocument) toEntity() *entity.Trip {
	stages := make([]entity.Stage, 0, len(d.Stages))
	for _, s := range d.Stages {
		stages = append(stages, entity.Stage(s))
	}

	t := &entity.Trip{
		ID:              d.ID.Hex(),
		Ticker:          d.Ticker,
		Title:           d.Title,
		Description:     d.Description,
		Price:           d.Price,
		Requirements:    d.Requirements,
		StartDate:       d.StartDate.UTC(),
		EndDate:         d.EndDate.UTC(),
		Pictures:        d.Pictures,
		State:           entity.TripState(d.State),
		ReasonCancelled: d.ReasonCancelled,
		Stages:          stages,
		ManagerID:       d.Manager,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
	if len(d.ManagerInfo) > 0 {
		m := d.ManagerInfo[0]
		t.Manager = &entity.ActorSummary{
			ID:      m.ID.Hex(),
			Name:    m.Name,
			Surname: m.Surname,
			Email:   m.Email,
		}
	}
	return t
}

// BuildTripFilter translates a predicate into a Mongo filter. The state clause is
// always present; the text clause must lead so Mongo can use the text index.
func BuildTripFilter(p entity.TripPredicate) bson.D {
	filter := bson.D{}

	if p.HasText() {
		filter = append(filter, bson.E{Key: "$text", Value: bson.M{"$search": p.Text}})
	}

	states := make([]string, 0, len(p.States))
	for _, s := range p.States {
		states = append(states, string(s))
	}
	filter = append(filter, bson.E{Key: "state", Value: bson.M{"$in": states}})

	if p.MinPrice != nil || p.MaxPrice != nil {
		price := bson.M{}
		if p.MinPrice != nil {
			price["$gte"] = *p.MinPrice
		}
		if p.MaxPrice != nil {
			price["$lte"] = *p.MaxPrice
		}
		filter = append(filter, bson.E{Key: "price", Value: price})
	}
	if p.StartFrom != nil {
		filter = append(filter, bson.E{Key: "startDate", Value: bson.M{"$gte": *p.StartFrom}})
	}
	if p.EndBefore != nil {
		filter = append(filter, bson.E{Key: "endDate", Value: bson.M{"$lte": *p.EndBefore}})
	}
	return filter
}

// BuildTripSearchPipeline returns the aggregation behind Search: match, relevance or
// field sort, paging and optional manager population.
func BuildTripSearchPipeline(p entity.TripPredicate, opts entity.TripSearchOptions, actors string) mongo.Pipeline {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: BuildTripFilter(p)}}}

	if p.HasText() {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{
			{Key: "score", Value: bson.M{"$meta": "textScore"}},
			{Key: "_id", Value: 1},
		}}})
	} else {
		field := opts.SortField
		if field == "" {
			field = entity.DefaultSortField
		}
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{
			{Key: field, Value: sortValue(opts.SortDesc)},
			{Key: "_id", Value: 1},
		}}})
	}

	if opts.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(opts.Skip)}})
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(opts.Limit)}})
	}

	if opts.PopulateManager {
		pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: actors},
			{Key: "let", Value: bson.M{"managerId": "$manager"}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"$expr": bson.M{"$eq": bson.A{bson.M{"$toString": "$_id"}, "$$managerId"}}}}},
				{{Key: "$project", Value: bson.M{"name": 1, "surname": 1, "email": 1}}},
			}},
			{Key: "as", Value: "managerInfo"},
		}}})
	}
	return pipeline
}

// Search runs a predicate against the trips collection
func (r *MongoTripRepository) Search(ctx context.Context, predicate entity.TripPredicate, opts entity.TripSearchOptions) ([]*entity.Trip, error) {
	cursor, err := r.collection.Aggregate(ctx, BuildTripSearchPipeline(predicate, opts, r.actors))
	if err != nil {
		return nil, translateMongoError(err, "search trips")
	}
	defer cursor.Close(ctx)

	var docs []tripDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err, "decode trips")
	}

	trips := make([]*entity.Trip, 0, len(docs))
	for _, d := range docs {
		trips = append(trips, d.toEntity())
	}
	return trips, nil
}

// Count returns the number of trips matching a predicate
func (r *MongoTripRepository) Count(ctx context.Context, predicate entity.TripPredicate) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, BuildTripFilter(predicate))
	if err != nil {
		return 0, translateMongoError(err, "count trips")
	}
	return n, nil
}

// Create inserts a trip. A duplicate ticker is reported as entity.ErrConflict.
func (r *MongoTripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	doc := tripToDocument(trip)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translateMongoError(err, "insert trip")
	}
	trip.ID = doc.ID.Hex()
	return nil
}

// FindByID finds a trip by ID without populating its manager
func (r *MongoTripRepository) FindByID(ctx context.Context, id string) (*entity.Trip, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc tripDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "trip "+id)
	}
	return doc.toEntity(), nil
}

// Update replaces the stored trip
func (r *MongoTripRepository) Update(ctx context.Context, trip *entity.Trip) error {
	oid, err := parseObjectID(trip.ID)
	if err != nil {
		return err
	}

	doc := tripToDocument(trip)
	doc.ID = oid

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return translateMongoError(err, "update trip")
	}
	if result.MatchedCount == 0 {
		return translateMongoError(mongo.ErrNoDocuments, "trip "+trip.ID)
	}
	return nil
}

// Delete removes a trip
func (r *MongoTripRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateMongoError(err, "delete trip")
	}
	if result.DeletedCount == 0 {
		return translateMongoError(mongo.ErrNoDocuments, "trip "+id)
	}
	return nil
}
