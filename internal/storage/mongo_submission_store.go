package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// submissionDocument is the BSON shape of a contact request.
type submissionDocument struct {
	ID         bson.ObjectID `bson:"_id"`
	Name       string        `bson:"name"`
	Phone      string        `bson:"phone"`
	Message    string        `bson:"message"`
	Status     string        `bson:"status"`
	ReceivedAt time.Time     `bson:"receivedAt"`
}

func (d submissionDocument) toSubmission() Submission {
	return Submission{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Phone:      d.Phone,
		Message:    d.Message,
		Status:     d.Status,
		ReceivedAt: d.ReceivedAt.UTC(),
	}
}

// MongoSubmissionStore implements SubmissionStore backed by a MongoDB collection.
type MongoSubmissionStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSubmissionStore binds the store to database/collection on client.
func NewMongoSubmissionStore(client *mongo.Client, database, collection string) *MongoSubmissionStore {
	return &MongoSubmissionStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// Add inserts a submission through an upsert on a fresh ObjectID so that
// receivedAt can be set by the server with $currentDate.
func (s *MongoSubmissionStore) Add(ctx context.Context, sub NewSubmission) (*Submission, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	id := bson.NewObjectID()
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":    sub.Name,
			"phone":   sub.Phone,
			"message": sub.Message,
			"status":  StatusNew,
		},
		"$currentDate": bson.M{"receivedAt": true},
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.UpdateOne().SetUpsert(true)); err != nil {
		return nil, fmt.Errorf("inserting contact request: %w", err)
	}

	var doc submissionDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading back contact request %s: %w", id.Hex(), err)
	}
	rec := doc.toSubmission()
	return &rec, nil
}

// List returns the most recent submissions ordered by receivedAt descending.
func (s *MongoSubmissionStore) List(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "receivedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying contact requests: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []submissionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding contact requests: %w", err)
	}

	subs := make([]Submission, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, d.toSubmission())
	}
	return subs, nil
}

// Ping checks connectivity to the MongoDB deployment.
func (s *MongoSubmissionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *MongoSubmissionStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
