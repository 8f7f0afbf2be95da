// Package recipes implements the recipe generation service boundary on top
// of the Cohere chat API.
package recipes

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	coherecore "github.com/cohere-ai/cohere-go/v2/core"
)

const defaultModel = "command-r-08-2024"

// CohereGenerator produces and reformulates recipes through Cohere chat
// completions with a strict-JSON contract.
type CohereGenerator struct {
	client      *cohereclient.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewCohereGenerator creates a generator. An empty model selects the
// default.
func NewCohereGenerator(apiKey, model string) *CohereGenerator {
	if model == "" {
		model = defaultModel
	}

	// Force HTTP/1.1; the API intermittently resets HTTP/2 streams on
	// long generations.
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}

	return &CohereGenerator{
		client: cohereclient.NewClient(
			cohereclient.WithToken(apiKey),
			cohereclient.WithHTTPClient(httpClient),
		),
		model:       model,
		temperature: 0.7,
		maxTokens:   2000,
	}
}

// Generate turns an extracted post into a structured recipe. ID and
// CreatedAt are left zero; the use case assigns them exactly once.
func (g *CohereGenerator) Generate(ctx context.Context, req domain.RecipeGenerationRequest) (*domain.Recipe, error) {
	resp, err := g.chat(ctx, generationPreamble, generationMessage(req))
	if err != nil {
		return nil, err
	}

	recipe, err := decodeRecipe(resp)
	if err != nil {
		return nil, err
	}

	log.GlobalDebugCtx(ctx, "recipe generated",
		"title", recipe.Title,
		"ingredients", len(recipe.Ingredients),
		"instructions", len(recipe.Instructions))
	return recipe, nil
}

// Reformulate rewrites an existing recipe in the requested style. The
// caller owns the id/createdAt handling.
func (g *CohereGenerator) Reformulate(ctx context.Context, recipe domain.Recipe, style domain.ReformulationType) (*domain.Recipe, error) {
	current, err := json.Marshal(recipe)
	if err != nil {
		return nil, err
	}

	resp, err := g.chat(ctx, reformulationPreamble(style), reformulationMessage(current, style))
	if err != nil {
		return nil, err
	}

	return decodeRecipe(resp)
}

// chat performs one completion and returns the raw model text.
func (g *CohereGenerator) chat(ctx context.Context, preamble, message string) (string, error) {
	resp, err := g.client.Chat(ctx, &cohere.ChatRequest{
		Model:       ptr(g.model),
		Preamble:    ptr(preamble),
		Message:     message,
		Temperature: ptr(g.temperature),
		MaxTokens:   ptr(g.maxTokens),
	})
	if err != nil {
		return "", classifyChatErr(err)
	}
	return resp.Text, nil
}

// decodeRecipe parses model output into a Recipe, tolerating markdown
// fences the model sometimes wraps around the JSON.
func decodeRecipe(text string) (*domain.Recipe, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(cleaned), &recipe); err != nil {
		return nil, fmt.Errorf("recipe JSON undecodable: %w", domain.ErrUpstream)
	}
	if recipe.Title == "" || len(recipe.Ingredients) == 0 || len(recipe.Instructions) == 0 {
		return nil, fmt.Errorf("recipe JSON incomplete: %w", domain.ErrUpstream)
	}
	return &recipe, nil
}

// classifyChatErr maps transport and API errors onto the generation
// service taxonomy.
func classifyChatErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat timed out: %w", domain.ErrUnreachable)
	}

	var apiErr *coherecore.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnprocessableEntity:
			return fmt.Errorf("chat rejected: %w", domain.ErrRecipeInvalidInput)
		case apiErr.StatusCode == http.StatusUnauthorized:
			return fmt.Errorf("chat unauthorized: %w", domain.ErrAuthRequired)
		case apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusPaymentRequired:
			return fmt.Errorf("chat forbidden: %w", domain.ErrForbidden)
		case apiErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("chat target missing: %w", domain.ErrRecipeNotFound)
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("chat throttled: %w", domain.ErrRateLimited)
		case apiErr.StatusCode >= 500:
			return fmt.Errorf("chat upstream failure: %w", domain.ErrUpstream)
		}
	}

	return fmt.Errorf("chat failed: %v: %w", err, domain.ErrUnreachable)
}

func ptr[T any](v T) *T {
	return &v
}
