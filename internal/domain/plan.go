// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPlanReason is used when a plan is generated on explicit user request.
const DefaultPlanReason = "User initiated request."

// MealSlots describes the four meals of one diet day.
type MealSlots struct {
	Breakfast string `bson:"breakfast" json:"breakfast"`
	Lunch     string `bson:"lunch" json:"lunch"`
	Dinner    string `bson:"dinner" json:"dinner"`
	Snacks    string `bson:"snacks" json:"snacks"`
}

// DietDay is one day of the 7-day diet schedule.
type DietDay struct {
	Day           int       `bson:"day" json:"day"`
	DailyCalories float64   `bson:"dailyCalories" json:"dailyCalories"`
	Meals         MealSlots `bson:"meals" json:"meals"`
}

// PlanExercise is one exercise within a workout day.
type PlanExercise struct {
	Name string `bson:"name" json:"name"`
	Sets int    `bson:"sets" json:"sets"`
	Reps string `bson:"reps" json:"reps"` // e.g. "8-12"
	Rest string `bson:"rest" json:"rest"` // e.g. "60-90 seconds"
}

// WorkoutDay is one day of the 7-day workout schedule. Rest days carry an
// empty exercise list.
type WorkoutDay struct {
	Day       int            `bson:"day" json:"day"`
	Focus     string         `bson:"focus" json:"focus"` // e.g. "Full Body", "Rest Day"
	Exercises []PlanExercise `bson:"exercises" json:"exercises"`
}

// PlanContent is the generated body of a plan, as returned by the AI service.
type PlanContent struct {
	DietPlan    []DietDay    `bson:"dietPlan" json:"dietPlan"`
	WorkoutPlan []WorkoutDay `bson:"workoutPlan" json:"workoutPlan"`
}

// PlanDocument is a generated 7-day diet-and-workout snapshot tied to a user.
// Documents are never mutated; the "current" plan for a user is the one with
// the latest CreatedAt.
type PlanDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	DietPlan        []DietDay          `bson:"dietPlan" json:"dietPlan"`
	WorkoutPlan     []WorkoutDay       `bson:"workoutPlan" json:"workoutPlan"`
	ReasonForUpdate string             `bson:"reasonForUpdate" json:"reasonForUpdate"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
