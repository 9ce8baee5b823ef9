// internal/domain/post.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a single comment on a Post.
type Comment struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post is a social feed entry.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Content   string               `bson:"content" json:"content"`
	MediaKeys []string             `bson:"mediaKeys,omitempty" json:"-"` // S3 object keys, resolved to URLs on read
	Likes     []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments  []Comment            `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
