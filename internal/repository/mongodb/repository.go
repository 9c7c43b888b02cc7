package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
	"github.com/mamadbah2/ecotrack/internal/repository"
)

var _ repository.Store = (*MongoDBRepository)(nil)

// Archive defines the storage of daily digests.
type Archive interface {
	SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// MongoDBRepository implements both the database slot and the digest archive on MongoDB.
type MongoDBRepository struct {
	client      *mongo.Client
	dbName      string
	key         string
	kvColl      string
	reportsColl string
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri, dbName, key string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if key == "" {
		key = repository.DefaultKey
	}

	return &MongoDBRepository{
		client:      client,
		dbName:      dbName,
		key:         key,
		kvColl:      "kv_store",
		reportsColl: "daily_reports",
	}, nil
}

// Load reads the database blob document.
func (r *MongoDBRepository) Load(ctx context.Context) (models.Database, error) {
	collection := r.client.Database(r.dbName).Collection(r.kvColl)

	var doc kvDocument
	err := collection.FindOne(ctx, bson.M{"_id": r.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Database{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", r.key, err)
	}

	return models.DecodeDatabase([]byte(doc.Value)), nil
}

// Save upserts the database blob document.
func (r *MongoDBRepository) Save(ctx context.Context, db models.Database) error {
	payload, err := models.EncodeDatabase(db)
	if err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(r.kvColl)
	update := bson.M{"$set": bson.M{"value": string(payload), "updated_at": time.Now().UTC()}}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": r.key}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", r.key, err)
	}
	return nil
}

// SaveDailySnapshot stores the digest of one date, replacing an earlier one.
func (r *MongoDBRepository) SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.reportsColl)
	_, err := collection.ReplaceOne(ctx, bson.M{"date": snapshot.Date}, snapshot, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save daily snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
