// Package ai talks to the external plan generation service and memoizes its
// results per user for a bounded window.
package ai

import (
	"context"
	"errors"

	"formaai/backend/internal/domain"
)

// --- Error Definitions ---
var (
	// ErrGeneration covers provider/network failures and malformed responses.
	ErrGeneration = errors.New("failed to generate plan from the AI service")
	// ErrMalformedPlan means the provider replied but the payload was missing
	// the dietPlan or workoutPlan key.
	ErrMalformedPlan = errors.New("invalid plan structure received from AI")
)

// Profile is the snapshot of user attributes fed into the generation prompt.
// CuisinePrefs must only be populated for pro-tier users; the caller enforces
// that policy.
type Profile struct {
	Age               int
	Gender            string
	HeightCm          float64
	WeightKg          float64
	Goal              string
	ActivityLevel     string
	DietaryPreference string
	CuisinePrefs      []string
}

// PlanGenerator produces a 7-day diet and workout plan for a profile.
type PlanGenerator interface {
	Generate(ctx context.Context, profile Profile) (*domain.PlanContent, error)
}
