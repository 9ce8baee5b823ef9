package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tier type to distinguish between subscription levels
type Tier string

// Define constants for subscription tiers
const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// User represents a registered FormaAI user.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`                           // Should be unique
	Username     string             `bson:"username,omitempty" json:"username,omitempty"` // Unique when set
	PasswordHash string             `bson:"passwordHash" json:"-"`                        // Never expose this via JSON
	Tier         Tier               `bson:"tier" json:"tier"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarKey    string             `bson:"avatarKey,omitempty" json:"-"` // Object key in S3, resolved to a URL on read

	// --- Body profile, used to build the plan generation prompt ---
	Age               int      `bson:"age,omitempty" json:"age,omitempty"`
	Gender            string   `bson:"gender,omitempty" json:"gender,omitempty"`
	HeightCm          float64  `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg          float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Goal              string   `bson:"goal,omitempty" json:"goal,omitempty"`
	ActivityLevel     string   `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	DietaryPreference string   `bson:"dietaryPreference,omitempty" json:"dietaryPreference,omitempty"`
	CuisinePrefs      []string `bson:"cuisinePrefs,omitempty" json:"cuisinePrefs,omitempty"` // Only fed to the generator for pro users
	ProfileComplete   bool     `bson:"profileComplete" json:"profileComplete"`

	// --- Social graph ---
	Following []primitive.ObjectID `bson:"following,omitempty" json:"following,omitempty"`
	Followers []primitive.ObjectID `bson:"followers,omitempty" json:"followers,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsPro() bool {
	return u.Tier == TierPro
}
