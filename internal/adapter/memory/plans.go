package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"fitcenter/internal/domain"
)

// --- DietRepository ---

// CreateDietPlan stores a plan with its meals and foods. Creation times are
// strictly increasing so the latest plan is unambiguous.
func (db *DB) CreateDietPlan(ctx context.Context, p domain.DietPlan) (*domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, m := range p.Meals {
		for _, f := range m.Foods {
			if db.foodLocked(f.FoodID) == nil {
				return nil, errors.New("diet food references unknown food item")
			}
		}
	}

	now := time.Now().UTC()
	if !now.After(db.lastPlanAt) {
		now = db.lastPlanAt.Add(time.Microsecond)
	}
	db.lastPlanAt = now

	db.planIDCounter++
	p.ID = db.planIDCounter
	p.CreatedAt = now

	meals := make([]domain.DietMeal, len(p.Meals))
	for i, m := range p.Meals {
		db.mealIDCounter++
		m.ID = db.mealIDCounter
		m.DietPlanID = p.ID
		foods := make([]domain.DietFood, len(m.Foods))
		for j, f := range m.Foods {
			db.dietFoodIDCounter++
			f.ID = db.dietFoodIDCounter
			f.DietMealID = m.ID
			f.Food = nil
			foods[j] = f
		}
		m.Foods = foods
		meals[i] = m
	}
	p.Meals = meals
	db.plans = append(db.plans, p)

	return db.resolvePlanLocked(p), nil
}

// LatestDietPlan returns the newest plan of a user, or nil.
func (db *DB) LatestDietPlan(ctx context.Context, userID int64) (*domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.DietPlan
	for i := range db.plans {
		p := &db.plans[i]
		if p.UserID != userID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	return db.resolvePlanLocked(*latest), nil
}

// resolvePlanLocked returns a deep copy of p with meals ordered and foods
// resolved against the catalog.
func (db *DB) resolvePlanLocked(p domain.DietPlan) *domain.DietPlan {
	out := p
	out.Meals = make([]domain.DietMeal, len(p.Meals))
	for i, m := range p.Meals {
		foods := make([]domain.DietFood, len(m.Foods))
		for j, f := range m.Foods {
			f.Food = db.foodLocked(f.FoodID)
			foods[j] = f
		}
		m.Foods = foods
		out.Meals[i] = m
	}
	sort.SliceStable(out.Meals, func(i, j int) bool { return out.Meals[i].Order < out.Meals[j].Order })
	return &out
}

// MealOwner returns the owner of the plan holding the meal.
func (db *DB) MealOwner(ctx context.Context, mealID int64) (int64, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range db.plans {
		for _, m := range p.Meals {
			if m.ID == mealID {
				return p.UserID, true, nil
			}
		}
	}
	return 0, false, nil
}

// DietFoodOwner returns the owner of the plan holding the diet food entry.
func (db *DB) DietFoodOwner(ctx context.Context, dietFoodID int64) (int64, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range db.plans {
		for _, m := range p.Meals {
			for _, f := range m.Foods {
				if f.ID == dietFoodID {
					return p.UserID, true, nil
				}
			}
		}
	}
	return 0, false, nil
}

// AddDietFood appends a food entry to an existing meal.
func (db *DB) AddDietFood(ctx context.Context, f domain.DietFood) (*domain.DietFood, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	item := db.foodLocked(f.FoodID)
	if item == nil {
		return nil, errors.New("diet food references unknown food item")
	}
	for pi := range db.plans {
		meals := db.plans[pi].Meals
		for mi := range meals {
			if meals[mi].ID != f.DietMealID {
				continue
			}
			db.dietFoodIDCounter++
			f.ID = db.dietFoodIDCounter
			f.Food = nil
			meals[mi].Foods = append(meals[mi].Foods, f)
			f.Food = item
			return &f, nil
		}
	}
	return nil, errors.New("diet meal not found")
}

// DeleteDietFood removes a food entry from its meal.
func (db *DB) DeleteDietFood(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for pi := range db.plans {
		meals := db.plans[pi].Meals
		for mi := range meals {
			foods := meals[mi].Foods
			for fi := range foods {
				if foods[fi].ID == id {
					meals[mi].Foods = append(foods[:fi:fi], foods[fi+1:]...)
					return nil
				}
			}
		}
	}
	return nil
}

// DietUsersWithFood returns the owners of plans that reference the food.
func (db *DB) DietUsersWithFood(ctx context.Context, foodID int64) ([]int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[int64]bool)
	var out []int64
	for _, p := range db.plans {
		if seen[p.UserID] {
			continue
		}
	meals:
		for _, m := range p.Meals {
			for _, f := range m.Foods {
				if f.FoodID == foodID {
					seen[p.UserID] = true
					out = append(out, p.UserID)
					break meals
				}
			}
		}
	}
	return out, nil
}

// dropDietFoodsLocked removes the diet entries that use a deleted food.
func (db *DB) dropDietFoodsLocked(foodID int64) {
	for pi := range db.plans {
		meals := db.plans[pi].Meals
		for mi := range meals {
			kept := meals[mi].Foods[:0]
			for _, f := range meals[mi].Foods {
				if f.FoodID != foodID {
					kept = append(kept, f)
				}
			}
			meals[mi].Foods = kept
		}
	}
}

// --- WorkoutRepository ---

// ListWorkoutPlans lists a user's workout plans, most recently updated first.
func (db *DB) ListWorkoutPlans(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WorkoutPlan, 0)
	for _, w := range db.workouts {
		if w.UserID == userID {
			result = append(result, copyWorkout(w))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// LatestWorkoutPlan returns the most recently created workout plan, or nil.
func (db *DB) LatestWorkoutPlan(ctx context.Context, userID int64) (*domain.WorkoutPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.WorkoutPlan
	for i := range db.workouts {
		w := &db.workouts[i]
		if w.UserID != userID {
			continue
		}
		if latest == nil || !w.CreatedAt.Before(latest.CreatedAt) {
			latest = w
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := copyWorkout(*latest)
	return &c, nil
}

// FindWorkoutPlan returns the plan a trainer assigned to a user, or nil.
func (db *DB) FindWorkoutPlan(ctx context.Context, userID, trainerID int64) (*domain.WorkoutPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, w := range db.workouts {
		if w.UserID == userID && w.TrainerID != nil && *w.TrainerID == trainerID {
			c := copyWorkout(w)
			return &c, nil
		}
	}
	return nil, nil
}

// CreateWorkoutPlan stores a new workout plan.
func (db *DB) CreateWorkoutPlan(ctx context.Context, p domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.workoutIDCounter++
	p.ID = db.workoutIDCounter
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p = copyWorkout(p)
	db.workouts = append(db.workouts, p)
	c := copyWorkout(p)
	return &c, nil
}

// UpdateWorkoutDays replaces the days of a workout plan. It returns nil when
// the plan does not exist.
func (db *DB) UpdateWorkoutDays(ctx context.Context, id int64, days []domain.WorkoutDay) (*domain.WorkoutPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.workouts {
		if db.workouts[i].ID == id {
			db.workouts[i].Days = copyDays(days)
			db.workouts[i].UpdatedAt = time.Now().UTC()
			c := copyWorkout(db.workouts[i])
			return &c, nil
		}
	}
	return nil, nil
}

func copyWorkout(w domain.WorkoutPlan) domain.WorkoutPlan {
	w.Days = copyDays(w.Days)
	return w
}

func copyDays(days []domain.WorkoutDay) []domain.WorkoutDay {
	out := make([]domain.WorkoutDay, len(days))
	for i, d := range days {
		ex := make([]domain.WorkoutExercise, len(d.Exercises))
		copy(ex, d.Exercises)
		out[i] = domain.WorkoutDay{Day: d.Day, Exercises: ex}
	}
	return out
}
