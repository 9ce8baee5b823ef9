package service

import (
	"context"
	"errors"
	"log"
	"time"

	"formaai/backend/internal/ai"
	"formaai/backend/internal/domain"
	"formaai/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrLogValidation = errors.New("log owner and date are required")
)

// EventPublisher delivers an event to a user's live sessions. Fire-and-forget:
// no return value, no delivery guarantee.
type EventPublisher interface {
	Publish(userID string, event any)
}

// PlanContentCache memoizes generated plan content per user. Advisory only.
type PlanContentCache interface {
	Get(userID string) (*domain.PlanContent, bool)
	Set(userID string, content *domain.PlanContent)
}

// PlanUpdatedEvent is pushed to a user's live sessions after an automatic
// plan regeneration.
type PlanUpdatedEvent struct {
	Type    string               `json:"type"`
	Message string               `json:"message"`
	Reason  string               `json:"reason"`
	NewPlan *domain.PlanDocument `json:"newPlan"`
}

// CreateLogInput carries the fields of a new progress log submission.
type CreateLogInput struct {
	Date      time.Time
	Meals     []domain.MealEntry
	Workouts  []domain.WorkoutEntry
	WeightKg  *float64
	BodyStats *domain.BodyStats
}

// --- Service Interface ---
type LogService interface {
	// CreateLog persists a progress log and, when the new weight reading
	// differs from the previous one by the trigger threshold, regenerates the
	// user's plan in the background of the same request. Regeneration
	// failures never fail the log write.
	CreateLog(ctx context.Context, userID primitive.ObjectID, input CreateLogInput) (*domain.ProgressLog, error)
	GetLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error)
}

// --- Service Implementation ---

type logService struct {
	logRepo   repository.ProgressLogRepository
	userRepo  repository.UserRepository
	planRepo  repository.PlanRepository
	generator ai.PlanGenerator
	cache     PlanContentCache
	publisher EventPublisher
}

// NewLogService creates a new instance of logService.
func NewLogService(
	logRepo repository.ProgressLogRepository,
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	generator ai.PlanGenerator,
	cache PlanContentCache,
	publisher EventPublisher,
) LogService {
	return &logService{
		logRepo:   logRepo,
		userRepo:  userRepo,
		planRepo:  planRepo,
		generator: generator,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateLog implements the log-ingestion workflow. The log write commits
// first; everything after it is best-effort.
func (s *logService) CreateLog(ctx context.Context, userID primitive.ObjectID, input CreateLogInput) (*domain.ProgressLog, error) {
	if userID == primitive.NilObjectID || input.Date.IsZero() {
		return nil, ErrLogValidation
	}

	entry := &domain.ProgressLog{
		UserID:    userID,
		Date:      input.Date.UTC(),
		Meals:     input.Meals,
		Workouts:  input.Workouts,
		WeightKg:  input.WeightKg,
		BodyStats: input.BodyStats,
	}

	if _, err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	// A log without a weight reading never reaches the detector.
	if entry.HasWeight() {
		s.maybeRegenerate(ctx, entry)
	}

	return entry, nil
}

// GetLogs returns all of the user's logs, oldest first.
func (s *logService) GetLogs(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	return s.logRepo.GetByUser(ctx, userID)
}

// maybeRegenerate runs the change detector against the previous weight
// reading and regenerates the plan when the threshold is crossed. Every
// failure on this path is contained: the log has already committed and log
// durability takes precedence over plan freshness.
func (s *logService) maybeRegenerate(ctx context.Context, newLog *domain.ProgressLog) {
	userHex := newLog.UserID.Hex()

	prior, err := s.logRepo.LatestWeightedBefore(ctx, newLog.UserID, newLog.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// First weight reading establishes the baseline only.
			return
		}
		log.Printf("ERROR: weight history lookup failed for user %s: %v", userHex, err)
		return
	}
	if !prior.HasWeight() {
		return
	}

	change, err := DetectWeightChange(*prior.WeightKg, *newLog.WeightKg)
	if err != nil {
		log.Printf("WARN: skipping automatic adjustment for user %s: %v", userHex, err)
		return
	}
	if !change.Triggered {
		return
	}
	log.Printf("Significant weight change detected for user %s: %.1f%%", userHex, change.Percent)

	user, err := s.userRepo.GetByID(ctx, newLog.UserID)
	if err != nil {
		log.Printf("ERROR: could not load user %s for plan regeneration: %v", userHex, err)
		return
	}

	// Always generate fresh content here: an automatic adjustment must
	// reflect the very latest profile, never the advisory cache.
	content, err := s.generator.Generate(ctx, generationProfile(user))
	if err != nil {
		log.Printf("ERROR: automatic plan regeneration failed for user %s: %v", userHex, err)
		return
	}
	if s.cache != nil {
		s.cache.Set(userHex, content)
	}

	plan := &domain.PlanDocument{
		UserID:          user.ID,
		DietPlan:        content.DietPlan,
		WorkoutPlan:     content.WorkoutPlan,
		ReasonForUpdate: change.Reason(),
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		log.Printf("ERROR: could not persist regenerated plan for user %s: %v", userHex, err)
		return
	}
	log.Printf("New diet plan automatically generated for user %s", userHex)

	if s.publisher != nil {
		s.publisher.Publish(userHex, PlanUpdatedEvent{
			Type:    "plan-updated",
			Message: "Your diet plan has been automatically updated due to a recent weight change!",
			Reason:  plan.ReasonForUpdate,
			NewPlan: plan,
		})
	}
}
