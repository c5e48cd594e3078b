package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo wraps the document store client and the application database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return &Mongo{Client: client, DB: client.Database(dbName)}, nil
}

// Healthy verifies store connectivity.
func (m *Mongo) Healthy(ctx context.Context) bool {
	if m == nil || m.Client == nil {
		return false
	}
	return m.Client.Ping(ctx, readpref.Primary()) == nil
}

// Close disconnects from the store.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the read paths depend on. Creation is
// idempotent; the call is safe on every startup.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	byTime := mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: -1}}}

	reports := []mongo.IndexModel{
		{Keys: bson.D{{Key: "printer_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		byTime,
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := m.DB.Collection("reports").Indexes().CreateMany(ctx, reports); err != nil {
		return err
	}

	reviews := []mongo.IndexModel{
		{Keys: bson.D{{Key: "space_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		byTime,
	}
	if _, err := m.DB.Collection("reviews").Indexes().CreateMany(ctx, reviews); err != nil {
		return err
	}

	printers := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
		{Keys: bson.D{{Key: "building", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := m.DB.Collection("printers").Indexes().CreateMany(ctx, printers); err != nil {
		return err
	}

	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "netid", Value: 1}}},
	}
	if _, err := m.DB.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	votes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "review_id", Value: 1}, {Key: "netid", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := m.DB.Collection("review_votes").Indexes().CreateMany(ctx, votes)
	return err
}
