package domain

import "context"

// FoodCategory groups catalog items by their dominant macronutrient.
type FoodCategory string

const (
	CategoryProtein      FoodCategory = "protein"
	CategoryCarbohydrate FoodCategory = "carbohydrate"
	CategoryFat          FoodCategory = "fat"
	CategoryVegetable    FoodCategory = "vegetable"
)

// Valid reports whether c is a known category.
func (c FoodCategory) Valid() bool {
	switch c {
	case CategoryProtein, CategoryCarbohydrate, CategoryFat, CategoryVegetable:
		return true
	}
	return false
}

// FoodItem is catalog reference data. Macros are per 100 g.
type FoodItem struct {
	ID       int64        `json:"id" yaml:"-"`
	Name     string       `json:"name" yaml:"name"`
	Category FoodCategory `json:"category" yaml:"category"`
	Calories float64      `json:"calories" yaml:"calories"`
	ProteinG float64      `json:"protein" yaml:"protein"`
	CarbsG   float64      `json:"carbs" yaml:"carbs"`
	FatG     float64      `json:"fat" yaml:"fat"`
}

// FoodRepository is the port for the food catalog.
type FoodRepository interface {
	ListFoods(ctx context.Context) ([]FoodItem, error)
	GetFood(ctx context.Context, id int64) (*FoodItem, error)
	CreateFood(ctx context.Context, f FoodItem) (*FoodItem, error)
	// UpdateFood returns nil when no item has the given id.
	UpdateFood(ctx context.Context, f FoodItem) (*FoodItem, error)
	DeleteFood(ctx context.Context, id int64) (bool, error)
	CountFoods(ctx context.Context) (int, error)
}
