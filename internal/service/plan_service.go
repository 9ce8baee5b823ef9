package service

import (
	"context"
	"errors"

	"formaai/backend/internal/ai"
	"formaai/backend/internal/domain"
	"formaai/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound = errors.New("no diet plan found for this user")
	ErrUserNotFound = errors.New("user not found")
)

// --- Service Interface ---
type PlanService interface {
	// GeneratePlan creates a plan on explicit user request. Results are
	// memoized per user for the cache window; generation failures surface to
	// the caller.
	GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error)
	// CurrentPlan returns the most recently created plan for the user.
	CurrentPlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error)
}

// --- Service Implementation ---

type planService struct {
	planRepo  repository.PlanRepository
	userRepo  repository.UserRepository
	generator ai.PlanGenerator
	cache     PlanContentCache
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	generator ai.PlanGenerator,
	cache PlanContentCache,
) PlanService {
	return &planService{
		planRepo:  planRepo,
		userRepo:  userRepo,
		generator: generator,
		cache:     cache,
	}
}

// GeneratePlan handles POST /diet/generate.
func (s *planService) GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	userHex := user.ID.Hex()
	var content *domain.PlanContent
	if s.cache != nil {
		if cached, ok := s.cache.Get(userHex); ok {
			content = cached
		}
	}
	if content == nil {
		content, err = s.generator.Generate(ctx, generationProfile(user))
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(userHex, content)
		}
	}

	plan := &domain.PlanDocument{
		UserID:          user.ID,
		DietPlan:        content.DietPlan,
		WorkoutPlan:     content.WorkoutPlan,
		ReasonForUpdate: domain.DefaultPlanReason,
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// CurrentPlan handles GET /diet/current. The current plan is purely a query
// over creation timestamps; there is no stored active flag.
func (s *planService) CurrentPlan(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error) {
	plan, err := s.planRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// generationProfile builds the generator input from a user. Cuisine
// preferences are a pro feature: free-tier profiles get the generic prompt.
func generationProfile(u *domain.User) ai.Profile {
	p := ai.Profile{
		Age:               u.Age,
		Gender:            u.Gender,
		HeightCm:          u.HeightCm,
		WeightKg:          u.WeightKg,
		Goal:              u.Goal,
		ActivityLevel:     u.ActivityLevel,
		DietaryPreference: u.DietaryPreference,
	}
	if u.IsPro() && len(u.CuisinePrefs) > 0 {
		p.CuisinePrefs = u.CuisinePrefs
	}
	return p
}
