package usecases

import (
	"context"
	"errors"
	"time"

	"recipegram/internal/domain"
	"recipegram/pkg/log"
)

// RecipeReformulator rewrites an existing recipe in a requested style.
type RecipeReformulator interface {
	Reformulate(ctx context.Context, recipe domain.Recipe, style domain.ReformulationType) (*domain.Recipe, error)
}

// ReformulateRecipeUseCase rewrites a stored recipe. The id survives
// unchanged, createdAt is refreshed, and the rewritten copy replaces the
// stored one.
type ReformulateRecipeUseCase struct {
	reformulator RecipeReformulator
	store        RecipeStore
	timeout      time.Duration
}

// NewReformulateRecipeUseCase creates the use case.
func NewReformulateRecipeUseCase(reformulator RecipeReformulator, store RecipeStore) *ReformulateRecipeUseCase {
	return &ReformulateRecipeUseCase{
		reformulator: reformulator,
		store:        store,
		timeout:      30 * time.Second,
	}
}

// Execute rewrites the recipe with the given id in the given style.
func (uc *ReformulateRecipeUseCase) Execute(ctx context.Context, recipeID string, style domain.ReformulationType) (*domain.Recipe, error) {
	if recipeID == "" || !style.Valid() {
		return nil, domain.ErrRecipeInvalidInput
	}

	original, err := uc.store.Get(recipeID)
	if err != nil {
		return nil, err
	}

	refCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	rewritten, err := uc.reformulator.Reformulate(refCtx, *original, style)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = domain.ErrUnreachable
		}
		log.GlobalErrorCtx(ctx, "recipe reformulation failed",
			"id", recipeID, "style", style, "error", err)
		return nil, err
	}

	// Same identity, fresh timestamp, original provenance.
	rewritten.ID = original.ID
	rewritten.CreatedAt = time.Now().UTC()
	rewritten.Source = original.Source

	if err := uc.store.Save(*rewritten); err != nil {
		return nil, err
	}

	log.GlobalInfoCtx(ctx, "recipe reformulated", "id", rewritten.ID, "style", style)
	return rewritten, nil
}
