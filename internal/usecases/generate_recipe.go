package usecases

import (
	"context"
	"errors"
	"time"

	"recipegram/internal/adapters/instagram"
	"recipegram/internal/domain"
	"recipegram/pkg/log"

	"github.com/google/uuid"
)

// RecipeGenerator defines the generation service boundary.
type RecipeGenerator interface {
	Generate(ctx context.Context, req domain.RecipeGenerationRequest) (*domain.Recipe, error)
}

// RecipeStore defines the persistence boundary for the recipe library.
type RecipeStore interface {
	List() ([]domain.Recipe, error)
	Get(id string) (*domain.Recipe, error)
	Save(recipe domain.Recipe) error
	Delete(id string) error
}

// GenerateRecipeUseCase turns extracted captions into persisted recipes.
type GenerateRecipeUseCase struct {
	extract   *ExtractCaptionUseCase
	generator RecipeGenerator
	store     RecipeStore
	timeout   time.Duration
}

// NewGenerateRecipeUseCase creates the use case. The timeout bounds one
// generation call; hitting it surfaces as ErrUnreachable.
func NewGenerateRecipeUseCase(extract *ExtractCaptionUseCase, generator RecipeGenerator, store RecipeStore) *GenerateRecipeUseCase {
	return &GenerateRecipeUseCase{
		extract:   extract,
		generator: generator,
		store:     store,
		timeout:   30 * time.Second,
	}
}

// Execute generates a recipe from an already-extracted caption, assigns its
// identity exactly once, and persists it.
func (uc *GenerateRecipeUseCase) Execute(ctx context.Context, req domain.RecipeGenerationRequest) (*domain.Recipe, error) {
	if req.Platform != "instagram" || req.URL == "" || req.Caption == "" {
		return nil, domain.ErrRecipeInvalidInput
	}

	genCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	recipe, err := uc.generator.Generate(genCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.ErrUnreachable
		}
		log.GlobalErrorCtx(ctx, "recipe generation failed", "url", req.URL, "error", err)
		return nil, err
	}

	if recipe.Title == "" {
		recipe.Title = instagram.TitleFromCaption(req.Caption)
	}

	// Identity is assigned here and only here. Source always reflects
	// the request, whatever the model echoed back.
	recipe.ID = uuid.NewString()
	recipe.CreatedAt = time.Now().UTC()
	recipe.Source = domain.RecipeSource{
		Platform:  req.Platform,
		URL:       req.URL,
		Author:    req.Author,
		Thumbnail: req.Thumbnail,
	}

	if err := uc.store.Save(*recipe); err != nil {
		return nil, err
	}

	log.GlobalInfoCtx(ctx, "recipe created", "id", recipe.ID, "title", recipe.Title)
	return recipe, nil
}

// ExecuteFromURL runs the full pipeline: extract the caption, enrich
// author/title/thumbnail from it, generate, persist.
func (uc *GenerateRecipeUseCase) ExecuteFromURL(ctx context.Context, url string) (*domain.Recipe, error) {
	extraction, err := uc.extract.Execute(ctx, url)
	if err != nil {
		return nil, err
	}

	caption := extraction.Caption
	var author *string
	if handle := instagram.AuthorFromCaption(caption.Text); handle != "" {
		author = &handle
	}
	thumbnail := instagram.ThumbnailURL(caption.Shortcode)

	return uc.Execute(ctx, domain.RecipeGenerationRequest{
		Platform:  "instagram",
		URL:       url,
		Author:    author,
		Caption:   caption.Text,
		Thumbnail: &thumbnail,
	})
}
