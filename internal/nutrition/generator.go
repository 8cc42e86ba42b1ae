package nutrition

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"fitcenter/internal/domain"
)

// ErrCatalogIncomplete is returned when a food category required to build a
// plan has no items.
var ErrCatalogIncomplete = errors.New("catalog incomplete")

// PlanDays is the number of days in a generated plan.
const PlanDays = 7

// VegetablePortionGram is the fixed vegetable portion of lunch and dinner.
const VegetablePortionGram = 100

// MealSlot is a daily meal and its share of the daily targets.
type MealSlot struct {
	Name  domain.MealName
	Ratio float64
}

// MealSlots lists the daily meals in serving order. Ratios sum to 1.
var MealSlots = []MealSlot{
	{Name: domain.MealBreakfast, Ratio: 0.30},
	{Name: domain.MealLunch, Ratio: 0.40},
	{Name: domain.MealDinner, Ratio: 0.30},
}

// Picker returns a uniformly distributed index in [0, n).
type Picker func(n int) int

// Catalog is the food catalog partitioned by category.
type Catalog map[domain.FoodCategory][]domain.FoodItem

// NewCatalog partitions items by category, dropping unknown categories.
func NewCatalog(items []domain.FoodItem) Catalog {
	c := make(Catalog)
	for _, it := range items {
		if it.Category.Valid() {
			c[it.Category] = append(c[it.Category], it)
		}
	}
	return c
}

// Validate checks that every category needed by a plan has at least one item.
func (c Catalog) Validate() error {
	for _, cat := range []domain.FoodCategory{
		domain.CategoryProtein,
		domain.CategoryCarbohydrate,
		domain.CategoryFat,
		domain.CategoryVegetable,
	} {
		if len(c[cat]) == 0 {
			return fmt.Errorf("%w: no %s items", ErrCatalogIncomplete, cat)
		}
	}
	return nil
}

// SelectFoods picks one item per macro category for the slot, plus a
// vegetable for every meal except breakfast.
func SelectFoods(c Catalog, slot MealSlot, pick Picker) []domain.FoodItem {
	if pick == nil {
		pick = rand.IntN
	}
	cats := []domain.FoodCategory{domain.CategoryProtein, domain.CategoryCarbohydrate, domain.CategoryFat}
	if slot.Name != domain.MealBreakfast {
		cats = append(cats, domain.CategoryVegetable)
	}
	out := make([]domain.FoodItem, 0, len(cats))
	for _, cat := range cats {
		items := c[cat]
		if len(items) == 0 {
			continue
		}
		out = append(out, items[pick(len(items))])
	}
	return out
}

// Portion returns the grams of a food supplying target grams of a macro the
// food contains per100g grams of. It reports false when the density is not
// positive.
func Portion(target, per100g float64) (int, bool) {
	if per100g <= 0 {
		return 0, false
	}
	g := math.Round(target / per100g * 100)
	if g < 0 {
		g = 0
	}
	return int(g), true
}

type mealTargets struct {
	protein, carbs, fat float64
}

// portionFor sizes a selected item against the meal's targets.
func portionFor(item domain.FoodItem, meal mealTargets) (int, bool) {
	switch item.Category {
	case domain.CategoryProtein:
		return Portion(meal.protein, item.ProteinG)
	case domain.CategoryCarbohydrate:
		return Portion(meal.carbs, item.CarbsG)
	case domain.CategoryFat:
		return Portion(meal.fat, item.FatG)
	case domain.CategoryVegetable:
		return VegetablePortionGram, true
	}
	return 0, false
}

// BuildPlan materializes an unsaved seven-day plan for the estimation. Items
// whose portion cannot be computed are left out of their meal and returned
// as skipped. Each call selects foods independently.
func BuildPlan(userID int64, est Estimation, c Catalog, pick Picker) (*domain.DietPlan, []domain.FoodItem, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	plan := &domain.DietPlan{
		UserID:        userID,
		DailyCalories: int(math.Round(est.TargetCalories)),
		ProteinG:      est.ProteinG,
		CarbsG:        est.CarbsG,
		FatG:          est.FatG,
		Meals:         make([]domain.DietMeal, 0, PlanDays*len(MealSlots)),
	}

	var skipped []domain.FoodItem
	order := 1
	for day := 1; day <= PlanDays; day++ {
		for _, slot := range MealSlots {
			share := mealTargets{
				protein: float64(est.ProteinG) * slot.Ratio,
				carbs:   float64(est.CarbsG) * slot.Ratio,
				fat:     float64(est.FatG) * slot.Ratio,
			}
			meal := domain.DietMeal{
				Name:  slot.Name,
				Day:   day,
				Order: order,
				Ratio: slot.Ratio,
			}
			order++

			for _, item := range SelectFoods(c, slot, pick) {
				grams, ok := portionFor(item, share)
				if !ok {
					skipped = append(skipped, item)
					continue
				}
				food := item
				meal.Foods = append(meal.Foods, domain.DietFood{
					FoodID:      item.ID,
					PortionGram: grams,
					Food:        &food,
				})
			}
			plan.Meals = append(plan.Meals, meal)
		}
	}
	return plan, skipped, nil
}
