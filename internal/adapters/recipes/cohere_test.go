package recipes

import (
	"context"
	"errors"
	"strings"
	"testing"

	coherecore "github.com/cohere-ai/cohere-go/v2/core"

	"recipegram/internal/domain"
)

const validRecipeJSON = `{
  "title": "Marble Cake",
  "summary": "A buttery vanilla and chocolate loaf.",
  "servings": 8,
  "time": {"prep": 20, "cook": 45, "total": 65},
  "difficulty": "easy",
  "ingredients": [
    {"item": "flour", "quantity": 200, "unit": "g"},
    {"item": "dark chocolate", "quantity": 100, "unit": "g", "notes": "70% cocoa"}
  ],
  "instructions": [
    {"step": 1, "text": "Cream the butter and sugar."},
    {"step": 2, "text": "Fold in the flour."}
  ],
  "nutrition": {"calories": 410, "protein": 6, "carbs": 48, "fat": 21},
  "proTips": ["Swirl the batters with a single pass of the knife."]
}`

func TestDecodeRecipe_PlainJSON(t *testing.T) {
	recipe, err := decodeRecipe(validRecipeJSON)

	if err != nil {
		t.Fatalf("decodeRecipe failed: %v", err)
	}
	if recipe.Title != "Marble Cake" {
		t.Errorf("title = %q", recipe.Title)
	}
	if len(recipe.Ingredients) != 2 || recipe.Ingredients[1].Notes != "70% cocoa" {
		t.Errorf("ingredients = %+v", recipe.Ingredients)
	}
	if recipe.Time.Total != 65 {
		t.Errorf("total time = %d", recipe.Time.Total)
	}
}

func TestDecodeRecipe_StripsMarkdownFences(t *testing.T) {
	fenced := "```json\n" + validRecipeJSON + "\n```"

	recipe, err := decodeRecipe(fenced)

	if err != nil {
		t.Fatalf("decodeRecipe failed: %v", err)
	}
	if recipe.Title != "Marble Cake" {
		t.Errorf("title = %q", recipe.Title)
	}
}

func TestDecodeRecipe_BareFences(t *testing.T) {
	fenced := "```\n" + validRecipeJSON + "\n```"

	if _, err := decodeRecipe(fenced); err != nil {
		t.Fatalf("decodeRecipe failed: %v", err)
	}
}

func TestDecodeRecipe_ProseAnswer_IsUpstreamError(t *testing.T) {
	_, err := decodeRecipe("Sure! Here's a lovely cake recipe for you...")

	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestDecodeRecipe_IncompleteRecipe_IsUpstreamError(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no title", `{"ingredients":[{"item":"x"}],"instructions":[{"step":1,"text":"y"}]}`},
		{"no ingredients", `{"title":"T","instructions":[{"step":1,"text":"y"}]}`},
		{"no instructions", `{"title":"T","ingredients":[{"item":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeRecipe(tt.json); !errors.Is(err, domain.ErrUpstream) {
				t.Errorf("error = %v, want ErrUpstream", err)
			}
		})
	}
}

func TestClassifyChatErr_StatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{400, domain.ErrRecipeInvalidInput},
		{422, domain.ErrRecipeInvalidInput},
		{401, domain.ErrAuthRequired},
		{402, domain.ErrForbidden},
		{403, domain.ErrForbidden},
		{404, domain.ErrRecipeNotFound},
		{429, domain.ErrRateLimited},
		{500, domain.ErrUpstream},
		{503, domain.ErrUpstream},
		{418, domain.ErrUnreachable},
	}

	for _, tt := range tests {
		apiErr := coherecore.NewAPIError(tt.status, errors.New("api says no"))

		got := classifyChatErr(apiErr)

		if !errors.Is(got, tt.expected) {
			t.Errorf("status %d: error = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestClassifyChatErr_DeadlineExceeded(t *testing.T) {
	got := classifyChatErr(context.DeadlineExceeded)

	if !errors.Is(got, domain.ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", got)
	}
}

func TestClassifyChatErr_UnknownTransportError(t *testing.T) {
	got := classifyChatErr(errors.New("connection refused"))

	if !errors.Is(got, domain.ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", got)
	}
}

func TestGenerationMessage_CarriesRequestFields(t *testing.T) {
	author := "louloukitchen"
	msg := generationMessage(domain.RecipeGenerationRequest{
		Platform: "instagram",
		URL:      "https://instagram.com/p/abc/",
		Author:   &author,
		Caption:  "CAKE MARBRÉ recipe",
	})

	for _, want := range []string{"instagram", "https://instagram.com/p/abc/", "louloukitchen", "CAKE MARBRÉ recipe"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestGenerationMessage_NilAuthorBecomesUnknown(t *testing.T) {
	msg := generationMessage(domain.RecipeGenerationRequest{
		Platform: "instagram",
		URL:      "https://instagram.com/p/abc/",
		Caption:  "soup",
	})

	if !strings.Contains(msg, "Author: Unknown") {
		t.Errorf("message should default the author:\n%s", msg)
	}
}

func TestReformulationPreamble_InsertsStyleInstruction(t *testing.T) {
	for style, instruction := range reformulationStyles {
		preamble := reformulationPreamble(style)
		if !strings.Contains(preamble, instruction) {
			t.Errorf("style %q preamble missing its instruction", style)
		}
		if !strings.Contains(preamble, string(style)) {
			t.Errorf("style %q preamble missing the style name", style)
		}
	}
}
