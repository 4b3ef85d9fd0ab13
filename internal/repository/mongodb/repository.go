package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comtec/field-reports/internal/domain/models"
)

// Repository defines the interface for report persistence.
type Repository interface {
	AppendReport(ctx context.Context, record models.ReportRecord) (string, error)
	ListReports(ctx context.Context, limit int64) ([]models.ReportRecord, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "reportes",
	}, nil
}

// AppendReport inserts the record as a brand-new entry and returns the
// datastore-assigned id. Every submission is a new document; there is no
// update or dedup path.
func (r *MongoDBRepository) AppendReport(ctx context.Context, record models.ReportRecord) (string, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	res, err := collection.InsertOne(ctx, record)
	if err != nil {
		return "", fmt.Errorf("failed to insert report: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	return id.Hex(), nil
}

// ListReports returns the most recent reports, newest first.
func (r *MongoDBRepository) ListReports(ctx context.Context, limit int64) ([]models.ReportRecord, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.ReportRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
