package recipes

import (
	"fmt"
	"strings"

	"recipegram/internal/domain"
)

// generationPreamble pins the model to a strict JSON recipe schema. The
// decoder rejects anything that drifts from it, so the rules are explicit.
const generationPreamble = `You are a culinary expert and professional recipe writer.
You turn dish descriptions, social media posts, and cooking ideas into complete, detailed recipes.

RULES:
1. ALWAYS produce a complete recipe with every required field.
2. Use precise quantities and standard measurement units.
3. Instructions must be clear, numbered, step-by-step.
4. Include relevant pro tips.
5. Estimate realistic nutrition values per serving.
6. Grade difficulty by actual complexity: easy, medium or hard.
7. Write an appealing title and a short appetizing summary.
8. Answer with STRICT JSON only, no prose, no markdown fences.

RESPONSE SCHEMA:
{
  "title": "...",
  "summary": "...",
  "servings": 4,
  "time": {"prep": 15, "cook": 30, "total": 45},
  "difficulty": "easy|medium|hard",
  "ingredients": [{"item": "...", "quantity": 200, "unit": "g", "notes": "..."}],
  "instructions": [{"step": 1, "text": "..."}],
  "nutrition": {"calories": 350, "protein": 25, "carbs": 30, "fat": 15},
  "proTips": ["..."]
}`

// reformulationStyles maps each supported tone to its rewrite instruction.
var reformulationStyles = map[domain.ReformulationType]string{
	domain.ReformulateSimplify:     "Simplify this recipe for beginners. Use plain words, reduce the ingredient count where possible, and make every instruction unmistakable.",
	domain.ReformulateDetailed:     "Expand this recipe with more explanation, technique notes and variations. Make it thorough and complete.",
	domain.ReformulateProfessional: "Rewrite this recipe in the voice of a professional chef. Use precise technical vocabulary and advanced technique.",
	domain.ReformulateCasual:       "Rewrite this recipe in a relaxed, friendly voice. Use everyday language and a warm tone.",
}

// generationMessage renders the user turn for recipe generation.
func generationMessage(req domain.RecipeGenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a complete recipe from this information:\n\n")
	fmt.Fprintf(&b, "Platform: %s\n", req.Platform)
	fmt.Fprintf(&b, "URL: %s\n", req.URL)
	fmt.Fprintf(&b, "Author: %s\n", orUnknown(req.Author))
	fmt.Fprintf(&b, "Description: %s\n", req.Caption)
	fmt.Fprintf(&b, "\nCreate a detailed, appetizing, easy-to-follow recipe.")
	return b.String()
}

// reformulationPreamble renders the system turn for a rewrite.
func reformulationPreamble(style domain.ReformulationType) string {
	return fmt.Sprintf(`You are a culinary expert who rewrites recipes in different styles.

Requested style: %s
Instructions: %s

RULES:
1. Keep the exact JSON structure of the original recipe.
2. Adapt the wording to the requested style.
3. Preserve every essential piece of information.
4. Answer with STRICT JSON only, no prose, no markdown fences.`, style, reformulationStyles[style])
}

// reformulationMessage renders the user turn carrying the current recipe.
func reformulationMessage(recipeJSON []byte, style domain.ReformulationType) string {
	return fmt.Sprintf("Rewrite this recipe in the %q style:\n\n%s", style, recipeJSON)
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "Unknown"
	}
	return *s
}
