// internal/domain/progress_log.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealEntry is one logged meal within a ProgressLog.
type MealEntry struct {
	MealType    string  `bson:"mealType" json:"mealType"` // e.g. "Breakfast", "Lunch", "Dinner", "Snack"
	Description string  `bson:"description" json:"description"`
	Calories    float64 `bson:"calories,omitempty" json:"calories,omitempty"`
	Macros      Macros  `bson:"macros,omitempty" json:"macros,omitempty"`
}

// Macros is the macronutrient breakdown of a meal, in grams.
type Macros struct {
	Protein float64 `bson:"protein" json:"protein"`
	Carbs   float64 `bson:"carbs" json:"carbs"`
	Fat     float64 `bson:"fat" json:"fat"`
}

// WorkoutEntry is one logged exercise within a ProgressLog.
type WorkoutEntry struct {
	ExerciseName string  `bson:"exerciseName" json:"exerciseName"`
	Sets         int     `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps         string  `bson:"reps,omitempty" json:"reps,omitempty"`     // Can be a range like "8-12"
	WeightUsed   float64 `bson:"weight,omitempty" json:"weight,omitempty"` // Weight used in kg
}

// BodyStats holds optional circumference measurements, in cm.
type BodyStats struct {
	Waist float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips  float64 `bson:"hips,omitempty" json:"hips,omitempty"`
	Chest float64 `bson:"chest,omitempty" json:"chest,omitempty"`
}

// ProgressLog is a single logging action by a user: meals, workouts and/or a
// body-weight reading for a given date. Logs are immutable once created and
// multiple logs per (user, day) are permitted.
type ProgressLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Date      time.Time          `bson:"date" json:"date"`
	Meals     []MealEntry        `bson:"meals,omitempty" json:"meals,omitempty"`
	Workouts  []WorkoutEntry     `bson:"workouts,omitempty" json:"workouts,omitempty"`
	WeightKg  *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // nil when no weight was logged
	BodyStats *BodyStats         `bson:"bodyStats,omitempty" json:"bodyStats,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasWeight reports whether this log carries a weight reading.
func (l *ProgressLog) HasWeight() bool {
	return l.WeightKg != nil
}
