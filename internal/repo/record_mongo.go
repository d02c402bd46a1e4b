package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/travel-aggregator/internal/domain"
)

// RecordsCollection is the collection (and table) holding travel records.
const RecordsCollection = "travel_records"

// mongoRecord is the stored document shape. IDs are kept as canonical UUID
// strings so that the _id tie-break sorts in UUIDv7 creation order.
type mongoRecord struct {
	ID                 string    `bson:"_id"`
	Country            string    `bson:"country"`
	Capital            string    `bson:"capital"`
	Population         *float64  `bson:"population"`
	Temperature        *float64  `bson:"temperature"`
	WeatherDescription string    `bson:"weatherDescription,omitempty"`
	// CapitalDetails is omitted when the client sent no details and holds
	// primitive.Null when it sent an explicit null.
	CapitalDetails any       `bson:"capitalDetails,omitempty"`
	StoredAt       time.Time `bson:"storedAt"`
}

// MongoRecordRepo is the MongoDB implementation of RecordRepo.
type MongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo constructs a RecordRepo over the travel_records collection
// of database. Open the client with db.NewMongoClient so nested documents
// decode as maps.
func NewMongoRecordRepo(database *mongo.Database) *MongoRecordRepo {
	return &MongoRecordRepo{coll: database.Collection(RecordsCollection)}
}

// Create inserts a single document. The insert is atomic on its own.
func (r *MongoRecordRepo) Create(ctx context.Context, rec domain.TravelRecord) (domain.TravelRecord, error) {
	details, err := detailsToBSON(rec.CapitalDetails)
	if err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.MongoRecordRepo.Create: encode capital details: %w", err)
	}
	doc := mongoRecord{
		ID:                 rec.ID.String(),
		Country:            rec.Country,
		Capital:            rec.Capital,
		Population:         rec.Population,
		Temperature:        rec.Temperature,
		WeatherDescription: rec.WeatherDescription,
		CapitalDetails:     details,
		StoredAt:           rec.StoredAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.TravelRecord{}, fmt.Errorf("repo.MongoRecordRepo.Create: %w", err)
	}
	// BSON dates carry millisecond precision; return what a read would see.
	rec.StoredAt = rec.StoredAt.UTC().Truncate(time.Millisecond)
	return rec, nil
}

// List returns all documents sorted by storedAt descending, then _id descending.
func (r *MongoRecordRepo) List(ctx context.Context) ([]domain.TravelRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "storedAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoRecordRepo.List: %w", err)
	}
	defer cursor.Close(ctx)

	records := []domain.TravelRecord{}
	for cursor.Next(ctx) {
		var d mongoRecord
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("repo.MongoRecordRepo.List: decode: %w", err)
		}
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("repo.MongoRecordRepo.List: document %q: %w", d.ID, err)
		}
		// A decoded null and a missing key both leave d.CapitalDetails nil.
		_, lookupErr := cursor.Current.LookupErr("capitalDetails")
		details, err := detailsFromBSON(d.CapitalDetails, lookupErr == nil)
		if err != nil {
			return nil, fmt.Errorf("repo.MongoRecordRepo.List: document %q: %w", d.ID, err)
		}
		records = append(records, domain.TravelRecord{
			ID:                 id,
			Country:            d.Country,
			Capital:            d.Capital,
			Population:         d.Population,
			Temperature:        d.Temperature,
			WeatherDescription: d.WeatherDescription,
			CapitalDetails:     details,
			StoredAt:           d.StoredAt.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("repo.MongoRecordRepo.List: cursor: %w", err)
	}
	return records, nil
}

// EnsureIndexes creates the storedAt ordering index. Safe to call on every start.
func (r *MongoRecordRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "storedAt", Value: -1},
			{Key: "_id", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("repo.MongoRecordRepo.EnsureIndexes: %w", err)
	}
	return nil
}

// detailsToBSON turns raw capital details into a value the driver stores as a
// native document. nil stays nil so the field is omitted.
func detailsToBSON(raw json.RawMessage) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return primitive.Null{}, nil
	}
	return v, nil
}

// detailsFromBSON is the inverse of detailsToBSON.
func detailsFromBSON(v any, present bool) (json.RawMessage, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(plainValue(v))
	if err != nil {
		return nil, fmt.Errorf("encode capital details: %w", err)
	}
	return b, nil
}

// plainValue rewrites decoded bson.M and bson.A values into plain maps and
// slices, matching what encoding/json produces for the other stores.
func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case map[string]any:
		for k, e := range t {
			t[k] = plainValue(e)
		}
		return t
	case bson.A:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = plainValue(e)
		}
		return a
	case []any:
		for i, e := range t {
			t[i] = plainValue(e)
		}
		return t
	default:
		return v
	}
}
