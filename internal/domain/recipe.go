package domain

import "time"

// Difficulty grades how demanding a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recipe is the persisted entity produced by the generation service.
// ID and CreatedAt are assigned exactly once at creation; reformulation
// keeps the ID and refreshes CreatedAt.
type Recipe struct {
	ID           string        `json:"id"`
	CreatedAt    time.Time     `json:"createdAt"`
	Title        string        `json:"title"`
	Summary      string        `json:"summary"`
	Servings     int           `json:"servings"`
	Time         RecipeTime    `json:"time"`
	Difficulty   Difficulty    `json:"difficulty"`
	Ingredients  []Ingredient  `json:"ingredients"`
	Instructions []Instruction `json:"instructions"`
	Nutrition    Nutrition     `json:"nutrition"`
	ProTips      []string      `json:"proTips"`
	Source       RecipeSource  `json:"source"`
}

// RecipeTime holds durations in minutes.
type RecipeTime struct {
	Prep  int `json:"prep"`
	Cook  int `json:"cook"`
	Total int `json:"total"`
}

// Ingredient is one line of the ingredient list.
type Ingredient struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
}

// Instruction is one numbered cooking step.
type Instruction struct {
	Step int    `json:"step"`
	Text string `json:"text"`
}

// Nutrition is a per-serving estimate.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// RecipeSource records where the recipe came from.
type RecipeSource struct {
	Platform  string  `json:"platform"`
	URL       string  `json:"url"`
	Author    *string `json:"author"`
	Thumbnail *string `json:"thumbnail"`
}

// RecipeGenerationRequest is the boundary object handed to the generation
// service. Constructed once extraction succeeds; immutable.
type RecipeGenerationRequest struct {
	Platform  string  `json:"platform"`
	URL       string  `json:"url"`
	Author    *string `json:"author"`
	Caption   string  `json:"caption"`
	Thumbnail *string `json:"thumbnail"`
}

// ReformulationType selects the tone a recipe is rewritten in.
type ReformulationType string

const (
	ReformulateSimplify     ReformulationType = "simplify"
	ReformulateDetailed     ReformulationType = "detailed"
	ReformulateProfessional ReformulationType = "professional"
	ReformulateCasual       ReformulationType = "casual"
)

// Valid reports whether t is one of the supported reformulation styles.
func (t ReformulationType) Valid() bool {
	switch t {
	case ReformulateSimplify, ReformulateDetailed, ReformulateProfessional, ReformulateCasual:
		return true
	}
	return false
}
