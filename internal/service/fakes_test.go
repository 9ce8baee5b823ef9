package service

import (
	"context"
	"time"

	"formaai/backend/internal/ai"
	"formaai/backend/internal/domain"
	"formaai/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hand-written fakes for the repository and generator interfaces. Each fake
// records calls so tests can assert on interaction, not just state.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	// Store a copy: the real repository serializes the document at insert
	// time, so later mutations of the caller's struct must not be visible.
	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) SetAvatarKey(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarKey = objectKey
	return nil
}

func (r *fakeUserRepo) SetFollowing(ctx context.Context, followerID, targetID primitive.ObjectID, follow bool) error {
	follower, ok := r.users[followerID]
	if !ok {
		return repository.ErrNotFound
	}
	target, ok := r.users[targetID]
	if !ok {
		return repository.ErrNotFound
	}
	if follow {
		follower.Following = append(follower.Following, targetID)
		target.Followers = append(target.Followers, followerID)
		return nil
	}
	follower.Following = removeID(follower.Following, targetID)
	target.Followers = removeID(target.Followers, followerID)
	return nil
}

func (r *fakeUserRepo) FindDiscoverable(ctx context.Context, excludeIDs []primitive.ObjectID, limit int64) ([]domain.User, error) {
	excluded := make(map[primitive.ObjectID]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []domain.User
	for _, u := range r.users {
		if _, skip := excluded[u.ID]; skip {
			continue
		}
		if int64(len(out)) >= limit {
			break
		}
		out = append(out, *u)
	}
	return out, nil
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

type fakeLogRepo struct {
	logs        []*domain.ProgressLog
	lookupCalls int
	priorErr    error
}

func (r *fakeLogRepo) Create(ctx context.Context, entry *domain.ProgressLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	r.logs = append(r.logs, entry)
	return entry.ID, nil
}

func (r *fakeLogRepo) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressLog, error) {
	var out []domain.ProgressLog
	for _, l := range r.logs {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) LatestWeightedBefore(ctx context.Context, userID, excludeID primitive.ObjectID) (*domain.ProgressLog, error) {
	r.lookupCalls++
	if r.priorErr != nil {
		return nil, r.priorErr
	}
	var best *domain.ProgressLog
	for _, l := range r.logs {
		if l.UserID != userID || l.ID == excludeID || !l.HasWeight() {
			continue
		}
		if best == nil || l.Date.After(best.Date) {
			best = l
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

type fakePlanRepo struct {
	plans     []*domain.PlanDocument
	createErr error
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.PlanDocument) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	r.plans = append(r.plans, plan)
	return plan.ID, nil
}

func (r *fakePlanRepo) FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*domain.PlanDocument, error) {
	var best *domain.PlanDocument
	for _, p := range r.plans {
		if p.UserID != userID {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			best = p
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

type fakeGenerator struct {
	calls    int
	profiles []ai.Profile
	content  *domain.PlanContent
	err      error
}

func (g *fakeGenerator) Generate(ctx context.Context, profile ai.Profile) (*domain.PlanContent, error) {
	g.calls++
	g.profiles = append(g.profiles, profile)
	if g.err != nil {
		return nil, g.err
	}
	return g.content, nil
}

type fakePublisher struct {
	events []any
	userID string
}

func (p *fakePublisher) Publish(userID string, event any) {
	p.userID = userID
	p.events = append(p.events, event)
}

func testPlanContent() *domain.PlanContent {
	return &domain.PlanContent{
		DietPlan: []domain.DietDay{{
			Day:           1,
			DailyCalories: 2100,
			Meals:         domain.MealSlots{Breakfast: "Oatmeal", Lunch: "Chicken salad", Dinner: "Salmon", Snacks: "Almonds"},
		}},
		WorkoutPlan: []domain.WorkoutDay{{
			Day:   1,
			Focus: "Full Body",
			Exercises: []domain.PlanExercise{
				{Name: "Squat", Sets: 3, Reps: "8-12", Rest: "90 seconds"},
			},
		}},
	}
}

func floatPtr(v float64) *float64 { return &v }
