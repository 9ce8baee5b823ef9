// internal/repository/mongo/post_repo.go
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

const postCollectionName = "posts"

// mongoPostRepository implements repository.PostRepository
type mongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new Post repository.
func NewMongoPostRepository(db *mongo.Database) repository.PostRepository {
	return &mongoPostRepository{
		collection: db.Collection(postCollectionName),
	}
}

// Create inserts a new post.
func (r *mongoPostRepository) Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error) {
	if post.AuthorID == primitive.NilObjectID || post.Content == "" {
		return primitive.NilObjectID, errors.New("post requires authorId and content")
	}

	post.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted post ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single post.
func (r *mongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var post domain.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetByAuthor retrieves all posts by one author, newest first.
func (r *mongoPostRepository) GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]domain.Post, error) {
	return r.findPosts(ctx, bson.M{"authorId": authorID}, 0)
}

// GetFeed retrieves the newest posts authored by any of the given users.
func (r *mongoPostRepository) GetFeed(ctx context.Context, authorIDs []primitive.ObjectID, limit int64) ([]domain.Post, error) {
	if len(authorIDs) == 0 {
		return []domain.Post{}, nil
	}
	return r.findPosts(ctx, bson.M{"authorId": bson.M{"$in": authorIDs}}, limit)
}

func (r *mongoPostRepository) findPosts(ctx context.Context, filter bson.M, limit int64) ([]domain.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []domain.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// ToggleLike adds the user to the post's likes, or removes them if already
// present, and returns the updated post.
func (r *mongoPostRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Post, error) {
	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	op := "$addToSet"
	for _, id := range post.Likes {
		if id == userID {
			op = "$pull"
			break
		}
	}

	update := bson.M{
		op:     bson.M{"likes": userID},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// AddComment appends a comment to the post and returns the updated post.
func (r *mongoPostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment domain.Comment) (*domain.Post, error) {
	now := time.Now().UTC()
	comment.CreatedAt = now
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// EnsurePostIndexes creates necessary indexes. Call during startup.
func EnsurePostIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
