// Package store persists the recipe collection as a single JSON array in
// one file: loaded wholesale at startup, rewritten wholesale on every
// mutation. No partial writes, no schema versioning.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"recipegram/internal/domain"
)

// FileStore is a whole-file JSON recipe store. Safe for concurrent use.
type FileStore struct {
	mu      sync.Mutex
	path    string
	recipes []domain.Recipe
}

// NewFileStore opens (or initializes) the store at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.recipes); err != nil {
		return nil, fmt.Errorf("recipe store %s corrupt: %w", path, err)
	}
	return s, nil
}

// List returns all recipes, newest first.
func (s *FileStore) List() ([]domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]domain.Recipe(nil), s.recipes...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Get returns the recipe with the given id.
func (s *FileStore) Get(id string) (*domain.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.recipes {
		if s.recipes[i].ID == id {
			recipe := s.recipes[i]
			return &recipe, nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

// Save inserts the recipe, or replaces the stored copy with the same id.
func (s *FileStore) Save(recipe domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.recipes {
		if s.recipes[i].ID == recipe.ID {
			s.recipes[i] = recipe
			replaced = true
			break
		}
	}
	if !replaced {
		s.recipes = append(s.recipes, recipe)
	}
	return s.flush()
}

// Delete removes the recipe with the given id.
func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
			return s.flush()
		}
	}
	return domain.ErrRecipeNotFound
}

// flush rewrites the whole collection atomically: temp file then rename.
// Callers hold the lock.
func (s *FileStore) flush() error {
	recipes := s.recipes
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	raw, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".recipes-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
