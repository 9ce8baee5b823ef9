// internal/ai/gemini.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"formaai/backend/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// fenceRegex strips a surrounding markdown code fence from the model reply.
var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// GeminiGenerator implements PlanGenerator against the Gemini generateContent API.
type GeminiGenerator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGeminiGenerator creates a generator. A non-positive timeout falls back
// to 30 seconds; a hung provider call is treated as a generation failure.
func NewGeminiGenerator(apiKey, model, baseURL string, timeout time.Duration) *GeminiGenerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiGenerator{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// Generate calls the provider and parses the reply into plan content.
func (g *GeminiGenerator) Generate(ctx context.Context, profile Profile) (*domain.PlanContent, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: AI API key not configured", ErrGeneration)
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildPrompt(profile)}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"temperature":      0.5,
		},
	}
	b, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Surface the provider's own error message when it sends one
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: provider error (%d): %s", ErrGeneration, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: provider error (%d)", ErrGeneration, resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrGeneration, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from provider", ErrGeneration)
	}

	return ParsePlanJSON(out.Candidates[0].Content.Parts[0].Text)
}

// ParsePlanJSON turns a model reply into plan content, tolerating a markdown
// code fence around the JSON. Replies missing either top-level key fail with
// ErrMalformedPlan.
func ParsePlanJSON(text string) (*domain.PlanContent, error) {
	jsonStr := strings.TrimSpace(text)
	if m := fenceRegex.FindStringSubmatch(jsonStr); m != nil {
		jsonStr = strings.TrimSpace(m[2])
	}

	var content domain.PlanContent
	if err := json.Unmarshal([]byte(jsonStr), &content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if len(content.DietPlan) == 0 || len(content.WorkoutPlan) == 0 {
		return nil, ErrMalformedPlan
	}
	return &content, nil
}

// buildPrompt renders the nutritionist prompt for a profile. Optional fields
// fall back to the same neutral defaults the product has always used.
func buildPrompt(p Profile) string {
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	age := "not provided"
	if p.Age > 0 {
		age = fmt.Sprintf("%d", p.Age)
	}
	cuisine := "International"
	if len(p.CuisinePrefs) > 0 {
		cuisine = strings.Join(p.CuisinePrefs, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are an expert nutritionist and certified personal trainer. ")
	sb.WriteString("Based on the following user profile, generate a comprehensive 7-day diet and fitness plan.\n\n")
	sb.WriteString("User Profile:\n")
	fmt.Fprintf(&sb, "- Age: %s\n", age)
	fmt.Fprintf(&sb, "- Gender: %s\n", orDefault(p.Gender, "not provided"))
	fmt.Fprintf(&sb, "- Height: %g cm\n", p.HeightCm)
	fmt.Fprintf(&sb, "- Weight: %g kg\n", p.WeightKg)
	fmt.Fprintf(&sb, "- Goal: %s\n", orDefault(p.Goal, "Maintain Weight"))
	fmt.Fprintf(&sb, "- Activity Level: %s\n", orDefault(p.ActivityLevel, "Moderately Active"))
	fmt.Fprintf(&sb, "- Dietary Preference: %s\n", orDefault(p.DietaryPreference, "None"))
	fmt.Fprintf(&sb, "- Cuisine Preference: %s\n", cuisine)
	sb.WriteString("\nPlease provide the response in a single, valid JSON object. ")
	sb.WriteString("Do not include any explanatory text before or after the JSON. ")
	sb.WriteString("The JSON object should have two main keys: \"dietPlan\" and \"workoutPlan\".\n\n")
	sb.WriteString("- \"dietPlan\" should be an array of 7 objects, one for each day. Each day object should have a \"day\" number, a \"dailyCalories\" estimate (number), and a \"meals\" object with keys \"breakfast\", \"lunch\", \"dinner\", and \"snacks\". Each meal should be a string describing the food and approximate portion sizes.\n")
	sb.WriteString("- \"workoutPlan\" should be an array of 7 objects, one for each day. Each day object should have a \"day\" number, a \"focus\" (string, e.g., \"Full Body\", \"Upper Body\", \"Rest Day\"), and an \"exercises\" array. If it's a rest day, the exercises array should be empty. Each exercise object should have a \"name\", \"sets\" (number), \"reps\" (string, e.g., \"8-12\"), and \"rest\" (string, e.g., \"60-90 seconds\").\n")
	return sb.String()
}
