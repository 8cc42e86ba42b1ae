package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitcenter/internal/domain"
)

// FoodService manages the food catalog.
type FoodService struct {
	repo  domain.FoodRepository
	diets domain.DietRepository
	cache readCache
}

// NewFoodService creates a FoodService. cache and diets may be nil; without
// diets, cached diet plans are not invalidated on catalog changes.
func NewFoodService(repo domain.FoodRepository, diets domain.DietRepository, cache domain.Cache, ttl time.Duration) *FoodService {
	return &FoodService{repo: repo, diets: diets, cache: newReadCache(cache, ttl)}
}

// List returns the catalog ordered by category and name.
func (s *FoodService) List(ctx context.Context) ([]domain.FoodItem, error) {
	return cached(ctx, s.cache, foodsKey, func(ctx context.Context) ([]domain.FoodItem, error) {
		return s.repo.ListFoods(ctx)
	})
}

func validateFood(f *domain.FoodItem) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return invalid("name is required")
	}
	if !f.Category.Valid() {
		return invalid("category must be protein, carbohydrate, fat or vegetable")
	}
	if f.Calories < 0 || f.ProteinG < 0 || f.CarbsG < 0 || f.FatG < 0 {
		return invalid("calories and macros must be >= 0")
	}
	return nil
}

// Create adds a catalog item.
func (s *FoodService) Create(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	if err := validateFood(&f); err != nil {
		return nil, err
	}
	f.ID = 0
	saved, err := s.repo.CreateFood(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create food: %w", err)
	}
	s.cache.invalidate(ctx, foodsKey)
	return saved, nil
}

// Update replaces a catalog item.
func (s *FoodService) Update(ctx context.Context, id int64, f domain.FoodItem) (*domain.FoodItem, error) {
	if err := validateFood(&f); err != nil {
		return nil, err
	}
	f.ID = id
	keys, err := s.affectedKeys(ctx, id)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.UpdateFood(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("update food: %w", err)
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: food %d", ErrNotFound, id)
	}
	s.cache.invalidate(ctx, keys...)
	return saved, nil
}

// Delete removes a catalog item. Diet entries using it are removed with it.
func (s *FoodService) Delete(ctx context.Context, id int64) error {
	keys, err := s.affectedKeys(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.repo.DeleteFood(ctx, id)
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: food %d", ErrNotFound, id)
	}
	s.cache.invalidate(ctx, keys...)
	return nil
}

// affectedKeys lists the cache entries that embed the food: the catalog and
// the latest diet plan of every user whose plans reference it. The owners
// are collected before the write since a delete cascades their entries away.
func (s *FoodService) affectedKeys(ctx context.Context, foodID int64) ([]string, error) {
	keys := []string{foodsKey}
	if s.diets == nil {
		return keys, nil
	}
	owners, err := s.diets.DietUsersWithFood(ctx, foodID)
	if err != nil {
		return nil, fmt.Errorf("diet plans using food %d: %w", foodID, err)
	}
	for _, id := range owners {
		keys = append(keys, dietLatestKey(id))
	}
	return keys, nil
}

// ExerciseService serves the exercise catalog.
type ExerciseService struct {
	repo  domain.ExerciseRepository
	cache readCache
}

// NewExerciseService creates an ExerciseService. cache may be nil.
func NewExerciseService(repo domain.ExerciseRepository, cache domain.Cache, ttl time.Duration) *ExerciseService {
	return &ExerciseService{repo: repo, cache: newReadCache(cache, ttl)}
}

// List returns all exercises ordered by name.
func (s *ExerciseService) List(ctx context.Context) ([]domain.Exercise, error) {
	return cached(ctx, s.cache, exercisesKey, func(ctx context.Context) ([]domain.Exercise, error) {
		return s.repo.ListExercises(ctx)
	})
}

// ListByMuscle returns the exercises of a muscle group ordered by name.
func (s *ExerciseService) ListByMuscle(ctx context.Context, group string) ([]domain.Exercise, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, invalid("muscle group is required")
	}
	return cached(ctx, s.cache, exercisesMuscleKey(group), func(ctx context.Context) ([]domain.Exercise, error) {
		return s.repo.ListExercisesByMuscle(ctx, group)
	})
}
