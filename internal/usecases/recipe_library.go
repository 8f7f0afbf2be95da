package usecases

import (
	"context"

	"recipegram/internal/domain"
	"recipegram/pkg/log"
)

// RecipeLibraryUseCase exposes the stored recipe collection.
type RecipeLibraryUseCase struct {
	store RecipeStore
}

// NewRecipeLibraryUseCase creates the use case.
func NewRecipeLibraryUseCase(store RecipeStore) *RecipeLibraryUseCase {
	return &RecipeLibraryUseCase{store: store}
}

// List returns all saved recipes, newest first.
func (uc *RecipeLibraryUseCase) List(ctx context.Context) ([]domain.Recipe, error) {
	return uc.store.List()
}

// Get returns one recipe by id.
func (uc *RecipeLibraryUseCase) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return uc.store.Get(id)
}

// Delete removes one recipe by id.
func (uc *RecipeLibraryUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.store.Delete(id); err != nil {
		return err
	}
	log.GlobalInfoCtx(ctx, "recipe deleted", "id", id)
	return nil
}
