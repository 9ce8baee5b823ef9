// internal/repository/mongo/progress_log_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"formaai/backend/internal/domain"
	"formaai/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressLogCollectionName = "progress_logs"

// mongoProgressLogRepository implements repository.ProgressLogRepository
type mongoProgressLogRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressLogRepository creates a new ProgressLog repository.
func NewMongoProgressLogRepository(db *mongo.Database) repository.ProgressLogRepository {
	return &mongoProgressLogRepository{
		collection: db.Collection(progressLogCollectionName),
	}
}

// Create inserts a new progress log. Logs are immutable afterwards.
func (r *mongoProgressLogRepository) Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error) {
	if log.UserID == primitive.NilObjectID || log.Date.IsZero() {
		return primitive.NilObjectID, errors.New("progress log requires userId and date")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByUser retrieves all logs for a user, oldest first.
func (r *mongoProgressLogRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	var logs []domain.ProgressLog
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Return empty slice if no logs found (not an error)
	return logs, nil
}

// LatestWeightedBefore finds the most recent prior log carrying a weight
// reading, excluding the just-created entry so a log never compares against
// itself.
func (r *mongoProgressLogRepository) LatestWeightedBefore(ctx context.Context, userID, excludeID primitive.ObjectID) (*domain.ProgressLog, error) {
	filter := bson.M{
		"userId": userID,
		"weight": bson.M{"$exists": true, "$ne": nil},
		"_id":    bson.M{"$ne": excludeID},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var log domain.ProgressLog
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// EnsureProgressLogIndexes creates necessary indexes. Call during startup.
// No unique (userId, date) index because multiple logs per day are allowed.
func EnsureProgressLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
