package repository

import (
	"context"

	"formaai/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*domain.User, error)
	SetAvatarKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
	// SetFollowing adds (follow=true) or removes (follow=false) the edge
	// between follower and target, updating both users' lists.
	SetFollowing(ctx context.Context, followerID, targetID primitive.ObjectID, follow bool) error
	// FindDiscoverable returns users outside the given exclusion list, capped
	// at limit.
	FindDiscoverable(ctx context.Context, excludeIDs []primitive.ObjectID, limit int64) ([]domain.User, error)
}

// ProgressLogRepository defines the interface for interacting with progress logs.
// Logs support create and recency queries only; they are immutable once written.
type ProgressLogRepository interface {
	Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error)
	// LatestWeightedBefore returns the most recent log (by date) for the user
	// that carries a weight reading, excluding the given log ID. Returns
	// ErrNotFound when the user has no prior weighted log.
	LatestWeightedBefore(ctx context.Context, userID, excludeID primitive.ObjectID) (*domain.ProgressLog, error)
}

// PlanRepository defines the interface for interacting with plan documents.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.PlanDocument) (primitive.ObjectID, error)
	// FindLatestByUser returns the user's current plan: the document with the
	// newest CreatedAt. Returns ErrNotFound when the user has no plan yet.
	FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error)
}

// PostRepository defines the interface for interacting with social feed posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]domain.Post, error)
	GetFeed(ctx context.Context, authorIDs []primitive.ObjectID, limit int64) ([]domain.Post, error)
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Post, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment domain.Comment) (*domain.Post, error)
}

// Conversation is a chat thread summary: the partner plus the last message.
type Conversation struct {
	PartnerID   primitive.ObjectID `bson:"partnerId" json:"partnerId"`
	LastMessage domain.ChatMessage `bson:"lastMessage" json:"lastMessage"`
}

// ChatMessageRepository defines the interface for interacting with direct messages.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (primitive.ObjectID, error)
	GetBetween(ctx context.Context, a, b primitive.ObjectID) ([]domain.ChatMessage, error)
	GetConversations(ctx context.Context, userID primitive.ObjectID) ([]Conversation, error)
}
