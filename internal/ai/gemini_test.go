package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanJSON = `{
	"dietPlan": [
		{"day": 1, "dailyCalories": 2100, "meals": {"breakfast": "Oatmeal", "lunch": "Salad", "dinner": "Salmon", "snacks": "Almonds"}}
	],
	"workoutPlan": [
		{"day": 1, "focus": "Full Body", "exercises": [{"name": "Squat", "sets": 3, "reps": "8-12", "rest": "90 seconds"}]},
		{"day": 2, "focus": "Rest Day", "exercises": []}
	]
}`

// geminiReply wraps text in the provider's candidates envelope.
func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(geminiReply(validPlanJSON))
	}))
	defer server.Close()

	g := NewGeminiGenerator("test-key", "gemini-2.5-flash-preview-04-17", server.URL, time.Second)
	content, err := g.Generate(context.Background(), Profile{
		Age: 30, Gender: "male", HeightCm: 180, WeightKg: 80,
		Goal: "Lose Weight", ActivityLevel: "Moderately Active",
	})
	require.NoError(t, err)
	require.NotNil(t, content)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash-preview-04-17:generateContent", gotPath)
	assert.Len(t, content.DietPlan, 1)
	assert.Len(t, content.WorkoutPlan, 2)
	assert.Equal(t, "Full Body", content.WorkoutPlan[0].Focus)

	genCfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
}

func TestGeminiGenerator_FencedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiReply("```json\n" + validPlanJSON + "\n```"))
	}))
	defer server.Close()

	g := NewGeminiGenerator("test-key", "test-model", server.URL, time.Second)
	content, err := g.Generate(context.Background(), Profile{})
	require.NoError(t, err)
	assert.Len(t, content.DietPlan, 1)
}

func TestGeminiGenerator_MalformedReply(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "not JSON", text: "Here is your plan: eat less, move more."},
		{name: "missing workoutPlan", text: `{"dietPlan": [{"day": 1}]}`},
		{name: "missing dietPlan", text: `{"workoutPlan": [{"day": 1}]}`},
		{name: "empty arrays", text: `{"dietPlan": [], "workoutPlan": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(geminiReply(tt.text))
			}))
			defer server.Close()

			g := NewGeminiGenerator("test-key", "test-model", server.URL, time.Second)
			_, err := g.Generate(context.Background(), Profile{})
			require.ErrorIs(t, err, ErrMalformedPlan)
		})
	}
}

func TestGeminiGenerator_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Resource has been exhausted"},
		})
	}))
	defer server.Close()

	g := NewGeminiGenerator("test-key", "test-model", server.URL, time.Second)
	_, err := g.Generate(context.Background(), Profile{})
	require.ErrorIs(t, err, ErrGeneration)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

func TestGeminiGenerator_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	g := NewGeminiGenerator("test-key", "test-model", server.URL, time.Second)
	_, err := g.Generate(context.Background(), Profile{})
	require.ErrorIs(t, err, ErrGeneration)
}

func TestGeminiGenerator_MissingAPIKey(t *testing.T) {
	g := NewGeminiGenerator("", "test-model", "", time.Second)
	_, err := g.Generate(context.Background(), Profile{})
	require.ErrorIs(t, err, ErrGeneration)
}

func TestGeminiGenerator_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	g := NewGeminiGenerator("test-key", "test-model", server.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Generate(ctx, Profile{})
	require.ErrorIs(t, err, ErrGeneration)
}

func TestParsePlanJSON(t *testing.T) {
	content, err := ParsePlanJSON(validPlanJSON)
	require.NoError(t, err)
	assert.Equal(t, float64(2100), content.DietPlan[0].DailyCalories)

	// Fence without a language tag.
	content, err = ParsePlanJSON("```\n" + validPlanJSON + "\n```")
	require.NoError(t, err)
	assert.Len(t, content.WorkoutPlan, 2)

	// Surrounding whitespace.
	content, err = ParsePlanJSON("\n\n  " + validPlanJSON + "  \n")
	require.NoError(t, err)
	assert.Len(t, content.DietPlan, 1)
}

func TestBuildPrompt_Defaults(t *testing.T) {
	prompt := buildPrompt(Profile{})
	assert.Contains(t, prompt, "Age: not provided")
	assert.Contains(t, prompt, "Goal: Maintain Weight")
	assert.Contains(t, prompt, "Activity Level: Moderately Active")
	assert.Contains(t, prompt, "Dietary Preference: None")
	assert.Contains(t, prompt, "Cuisine Preference: International")
}

func TestBuildPrompt_CuisinePrefs(t *testing.T) {
	prompt := buildPrompt(Profile{CuisinePrefs: []string{"Thai", "Italian"}})
	assert.Contains(t, prompt, "Cuisine Preference: Thai, Italian")
}
