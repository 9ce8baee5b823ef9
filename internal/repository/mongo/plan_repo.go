// internal/repository/mongo/plan_repo.go
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

const planCollectionName = "diet_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new PlanDocument repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan document. Plans are never updated; concurrent
// regenerations for one user simply produce two documents and the newest
// CreatedAt wins.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.PlanDocument) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires userId")
	}
	if plan.ReasonForUpdate == "" {
		plan.ReasonForUpdate = domain.DefaultPlanReason
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// FindLatestByUser returns the user's current plan, defined as the most
// recently created document for that user.
func (r *mongoPlanRepository) FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var plan domain.PlanDocument
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The main query pattern: latest plan per user
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
