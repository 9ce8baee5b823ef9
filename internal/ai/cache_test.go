package ai

import (
	"testing"
	"time"

	"formaai/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContent() *domain.PlanContent {
	return &domain.PlanContent{
		DietPlan:    []domain.DietDay{{Day: 1, DailyCalories: 2000}},
		WorkoutPlan: []domain.WorkoutDay{{Day: 1, Focus: "Rest Day"}},
	}
}

func TestPlanCache_GetSet(t *testing.T) {
	cache := NewPlanCache(time.Hour)
	content := testContent()

	_, ok := cache.Get("user-1")
	assert.False(t, ok)

	cache.Set("user-1", content)
	got, ok := cache.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, content, got)

	// Entries are per user.
	_, ok = cache.Get("user-2")
	assert.False(t, ok)
}

func TestPlanCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	cache := NewPlanCache(24 * time.Hour)
	cache.now = func() time.Time { return now }

	cache.Set("user-1", testContent())

	now = now.Add(24*time.Hour - time.Second)
	_, ok := cache.Get("user-1")
	assert.True(t, ok, "entry just inside the TTL should still be served")

	now = now.Add(2 * time.Second)
	_, ok = cache.Get("user-1")
	assert.False(t, ok, "entry past the TTL should be evicted")

	// The eviction is permanent, not a transient miss.
	_, ok = cache.Get("user-1")
	assert.False(t, ok)
}

func TestPlanCache_SetReplaces(t *testing.T) {
	cache := NewPlanCache(time.Hour)
	first := testContent()
	second := testContent()
	second.DietPlan[0].DailyCalories = 1800

	cache.Set("user-1", first)
	cache.Set("user-1", second)

	got, ok := cache.Get("user-1")
	require.True(t, ok)
	assert.Equal(t, float64(1800), got.DietPlan[0].DailyCalories)
}

func TestPlanCache_Evict(t *testing.T) {
	cache := NewPlanCache(time.Hour)
	cache.Set("user-1", testContent())
	cache.Evict("user-1")

	_, ok := cache.Get("user-1")
	assert.False(t, ok)

	// Evicting a missing key is a no-op.
	cache.Evict("user-2")
}

func TestNewPlanCache_DefaultTTL(t *testing.T) {
	cache := NewPlanCache(0)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)

	cache = NewPlanCache(-time.Minute)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)

	cache = NewPlanCache(time.Minute)
	assert.Equal(t, time.Minute, cache.ttl)
}
