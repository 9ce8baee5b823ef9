// internal/repository/mongo/chat_repo.go
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

const chatCollectionName = "chat_messages"

// mongoChatMessageRepository implements repository.ChatMessageRepository
type mongoChatMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoChatMessageRepository creates a new ChatMessage repository.
func NewMongoChatMessageRepository(db *mongo.Database) repository.ChatMessageRepository {
	return &mongoChatMessageRepository{
		collection: db.Collection(chatCollectionName),
	}
}

// Create inserts a new direct message.
func (r *mongoChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) (primitive.ObjectID, error) {
	if msg.From == primitive.NilObjectID || msg.To == primitive.NilObjectID || msg.Message == "" {
		return primitive.NilObjectID, errors.New("chat message requires from, to and message")
	}

	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted message ID")
	}
	return insertedID, nil
}

// GetBetween retrieves the full message history between two users, oldest first.
func (r *mongoChatMessageRepository) GetBetween(ctx context.Context, a, b primitive.ObjectID) ([]domain.ChatMessage, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"from": a, "to": b},
			{"from": b, "to": a},
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return messages, nil
}

// GetConversations groups the user's messages by conversation partner and
// returns each partner with the last message, newest conversation first.
func (r *mongoChatMessageRepository) GetConversations(ctx context.Context, userID primitive.ObjectID) ([]repository.Conversation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$or": []bson.M{{"from": userID}, {"to": userID}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"$cond": bson.M{
					"if":   bson.M{"$eq": []any{"$from", userID}},
					"then": "$to",
					"else": "$from",
				},
			},
			"lastMessage": bson.M{"$last": "$$ROOT"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastMessage.createdAt", Value: -1}}}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"partnerId":   "$_id",
			"lastMessage": 1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []repository.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []repository.Conversation{}
	}
	return conversations, nil
}

// EnsureChatMessageIndexes creates necessary indexes. Call during startup.
func EnsureChatMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
