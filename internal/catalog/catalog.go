// Package catalog provides the reference data used to seed a fresh store.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"fitcenter/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed foods.yaml
var foodsYAML []byte

//go:embed exercises.yaml
var exercisesYAML []byte

// Foods returns the seed food catalog.
func Foods() ([]domain.FoodItem, error) {
	var doc struct {
		Foods []domain.FoodItem `yaml:"foods"`
	}
	if err := yaml.Unmarshal(foodsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse foods: %w", err)
	}
	for i, f := range doc.Foods {
		if !f.Category.Valid() {
			return nil, fmt.Errorf("food %q: unknown category %q", f.Name, f.Category)
		}
		doc.Foods[i].ID = 0
	}
	return doc.Foods, nil
}

// Exercises returns the seed exercise catalog.
func Exercises() ([]domain.Exercise, error) {
	var doc struct {
		Exercises []domain.Exercise `yaml:"exercises"`
	}
	if err := yaml.Unmarshal(exercisesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse exercises: %w", err)
	}
	return doc.Exercises, nil
}

// Seed loads the catalogs into empty repositories. Non-empty repositories
// are left untouched. It returns the number of foods and exercises created.
func Seed(ctx context.Context, foods domain.FoodRepository, exercises domain.ExerciseRepository) (int, int, error) {
	var nf, ne int

	count, err := foods.CountFoods(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count foods: %w", err)
	}
	if count == 0 {
		items, err := Foods()
		if err != nil {
			return 0, 0, err
		}
		for _, f := range items {
			if _, err := foods.CreateFood(ctx, f); err != nil {
				return nf, 0, fmt.Errorf("seed food %q: %w", f.Name, err)
			}
			nf++
		}
	}

	count, err = exercises.CountExercises(ctx)
	if err != nil {
		return nf, 0, fmt.Errorf("count exercises: %w", err)
	}
	if count == 0 {
		items, err := Exercises()
		if err != nil {
			return nf, 0, err
		}
		for _, e := range items {
			if _, err := exercises.CreateExercise(ctx, e); err != nil {
				return nf, ne, fmt.Errorf("seed exercise %q: %w", e.Name, err)
			}
			ne++
		}
	}
	return nf, ne, nil
}
