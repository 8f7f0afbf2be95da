package usecases_test

import (
	"context"
	"errors"
	"testing"

	"recipegram/internal/domain"
	"recipegram/internal/usecases"
)

func TestRecipeLibrary_ListGetDelete(t *testing.T) {
	store := NewMockStore()
	first := storedRecipe()
	second := storedRecipe()
	second.ID = "recipe-2"
	second.Title = "Lemon Tart"
	store.Save(first)
	store.Save(second)
	uc := usecases.NewRecipeLibraryUseCase(store)

	recipes, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recipes) != 2 || recipes[0].ID != "recipe-2" {
		t.Errorf("list = %v recipes, first id %q; want newest first", len(recipes), recipes[0].ID)
	}

	got, err := uc.Get(context.Background(), "recipe-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Marble Cake" {
		t.Errorf("title = %q", got.Title)
	}

	if err := uc.Delete(context.Background(), "recipe-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := uc.Get(context.Background(), "recipe-1"); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("error after delete = %v, want ErrRecipeNotFound", err)
	}
}

func TestRecipeLibrary_Delete_Unknown(t *testing.T) {
	uc := usecases.NewRecipeLibraryUseCase(NewMockStore())

	if err := uc.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("error = %v, want ErrRecipeNotFound", err)
	}
}
