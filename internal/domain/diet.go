package domain

import (
	"context"
	"time"
)

// MealName identifies one of the daily meal slots.
type MealName string

const (
	MealBreakfast MealName = "breakfast"
	MealLunch     MealName = "lunch"
	MealDinner    MealName = "dinner"
)

// DietPlan is a generated weekly plan with its daily targets.
type DietPlan struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	DailyCalories int        `json:"dailyCalories"`
	ProteinG      int        `json:"proteinGrams"`
	CarbsG        int        `json:"carbohydrateGrams"`
	FatG          int        `json:"fatGrams"`
	CreatedAt     time.Time  `json:"createdAt"`
	Meals         []DietMeal `json:"meals"`
}

// DietMeal is one meal of one day of a plan.
type DietMeal struct {
	ID         int64      `json:"id"`
	DietPlanID int64      `json:"dietPlanId"`
	Name       MealName   `json:"name"`
	Day        int        `json:"day"`
	Order      int        `json:"order"`
	Ratio      float64    `json:"ratio"`
	Foods      []DietFood `json:"foods"`
}

// DietFood is a portion of a catalog item within a meal.
type DietFood struct {
	ID          int64     `json:"id"`
	DietMealID  int64     `json:"dietMealId"`
	FoodID      int64     `json:"foodId"`
	PortionGram int       `json:"portionGram"`
	Food        *FoodItem `json:"food,omitempty"`
}

// DietRepository is the port for diet plan persistence.
type DietRepository interface {
	// CreateDietPlan stores the plan with all its meals and foods atomically
	// and returns it with ids and creation time assigned.
	CreateDietPlan(ctx context.Context, p DietPlan) (*DietPlan, error)
	// LatestDietPlan returns the most recently created plan of a user with
	// meals ordered by Order and foods resolved, or nil.
	LatestDietPlan(ctx context.Context, userID int64) (*DietPlan, error)
	// MealOwner returns the user owning the plan that holds the meal.
	MealOwner(ctx context.Context, mealID int64) (int64, bool, error)
	// DietFoodOwner returns the user owning the plan that holds the entry.
	DietFoodOwner(ctx context.Context, dietFoodID int64) (int64, bool, error)
	AddDietFood(ctx context.Context, f DietFood) (*DietFood, error)
	DeleteDietFood(ctx context.Context, id int64) error
	// DietUsersWithFood returns the owners of plans that reference the food.
	DietUsersWithFood(ctx context.Context, foodID int64) ([]int64, error)
}
