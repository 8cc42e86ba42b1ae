package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitcenter/internal/domain"
)

// CreateDietPlan stores the plan, its meals and foods in one transaction.
// The plan's creation time is kept strictly after the user's previous plan.
func (d *DB) CreateDietPlan(ctx context.Context, p domain.DietPlan) (*domain.DietPlan, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	var prev sql.NullTime
	if err := tx.QueryRowContext(ctx,
		"SELECT MAX(created_at) FROM diet_plans WHERE user_id = $1;", p.UserID,
	).Scan(&prev); err != nil {
		return nil, fmt.Errorf("latest plan time: %w", err)
	}
	if prev.Valid && !now.After(prev.Time) {
		now = prev.Time.Add(time.Microsecond)
	}
	p.CreatedAt = now

	if err := tx.QueryRowContext(ctx,
		"INSERT INTO diet_plans (user_id, daily_calories, protein_g, carbs_g, fat_g, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;",
		p.UserID, p.DailyCalories, p.ProteinG, p.CarbsG, p.FatG, p.CreatedAt,
	).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	for i := range p.Meals {
		m := &p.Meals[i]
		m.DietPlanID = p.ID
		if err := tx.QueryRowContext(ctx,
			"INSERT INTO diet_meals (diet_plan_id, name, day, meal_order, ratio) VALUES ($1, $2, $3, $4, $5) RETURNING id;",
			m.DietPlanID, m.Name, m.Day, m.Order, m.Ratio,
		).Scan(&m.ID); err != nil {
			return nil, fmt.Errorf("insert meal: %w", err)
		}
		for j := range m.Foods {
			f := &m.Foods[j]
			f.DietMealID = m.ID
			if err := tx.QueryRowContext(ctx,
				"INSERT INTO diet_foods (diet_meal_id, food_id, portion_gram) VALUES ($1, $2, $3) RETURNING id;",
				f.DietMealID, f.FoodID, f.PortionGram,
			).Scan(&f.ID); err != nil {
				return nil, fmt.Errorf("insert diet food: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestDietPlan returns the newest plan of a user with meals ordered and
// foods resolved, or nil.
func (d *DB) LatestDietPlan(ctx context.Context, userID int64) (*domain.DietPlan, error) {
	var p domain.DietPlan
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, daily_calories, protein_g, carbs_g, fat_g, created_at FROM diet_plans WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1;",
		userID,
	).Scan(&p.ID, &p.UserID, &p.DailyCalories, &p.ProteinG, &p.CarbsG, &p.FatG, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.sql.QueryContext(ctx, `
SELECT m.id, m.name, m.day, m.meal_order, m.ratio,
	df.id, df.food_id, df.portion_gram,
	f.id, f.name, f.category, f.calories, f.protein, f.carbs, f.fat
FROM diet_meals m
LEFT JOIN diet_foods df ON df.diet_meal_id = m.id
LEFT JOIN food_items f ON f.id = df.food_id
WHERE m.diet_plan_id = $1
ORDER BY m.meal_order, df.id;`, p.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	p.Meals = make([]domain.DietMeal, 0)
	for rows.Next() {
		var (
			m                            domain.DietMeal
			dfID, foodRef, portion, fID  sql.NullInt64
			fName, fCategory             sql.NullString
			fCal, fProtein, fCarbs, fFat sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Day, &m.Order, &m.Ratio,
			&dfID, &foodRef, &portion,
			&fID, &fName, &fCategory, &fCal, &fProtein, &fCarbs, &fFat); err != nil {
			return nil, err
		}
		if n := len(p.Meals); n == 0 || p.Meals[n-1].ID != m.ID {
			m.DietPlanID = p.ID
			m.Foods = make([]domain.DietFood, 0)
			p.Meals = append(p.Meals, m)
		}
		if !dfID.Valid {
			continue
		}
		df := domain.DietFood{
			ID:          dfID.Int64,
			DietMealID:  m.ID,
			FoodID:      foodRef.Int64,
			PortionGram: int(portion.Int64),
		}
		if fID.Valid {
			df.Food = &domain.FoodItem{
				ID:       fID.Int64,
				Name:     fName.String,
				Category: domain.FoodCategory(fCategory.String),
				Calories: fCal.Float64,
				ProteinG: fProtein.Float64,
				CarbsG:   fCarbs.Float64,
				FatG:     fFat.Float64,
			}
		}
		last := &p.Meals[len(p.Meals)-1]
		last.Foods = append(last.Foods, df)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

// MealOwner returns the owner of the plan holding the meal.
func (d *DB) MealOwner(ctx context.Context, mealID int64) (int64, bool, error) {
	return d.owner(ctx,
		"SELECT p.user_id FROM diet_meals m JOIN diet_plans p ON p.id = m.diet_plan_id WHERE m.id = $1;",
		mealID,
	)
}

// DietFoodOwner returns the owner of the plan holding the diet food entry.
func (d *DB) DietFoodOwner(ctx context.Context, dietFoodID int64) (int64, bool, error) {
	return d.owner(ctx,
		"SELECT p.user_id FROM diet_foods df JOIN diet_meals m ON m.id = df.diet_meal_id JOIN diet_plans p ON p.id = m.diet_plan_id WHERE df.id = $1;",
		dietFoodID,
	)
}

func (d *DB) owner(ctx context.Context, query string, id int64) (int64, bool, error) {
	var userID int64
	err := d.sql.QueryRowContext(ctx, query, id).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return userID, true, nil
}

// AddDietFood appends a food entry to a meal.
func (d *DB) AddDietFood(ctx context.Context, f domain.DietFood) (*domain.DietFood, error) {
	if err := d.sql.QueryRowContext(ctx,
		"INSERT INTO diet_foods (diet_meal_id, food_id, portion_gram) VALUES ($1, $2, $3) RETURNING id;",
		f.DietMealID, f.FoodID, f.PortionGram,
	).Scan(&f.ID); err != nil {
		return nil, err
	}
	food, err := d.GetFood(ctx, f.FoodID)
	if err != nil {
		return nil, err
	}
	f.Food = food
	return &f, nil
}

// DeleteDietFood removes a food entry.
func (d *DB) DeleteDietFood(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM diet_foods WHERE id = $1;", id)
	return err
}

// DietUsersWithFood returns the owners of plans that reference the food.
func (d *DB) DietUsersWithFood(ctx context.Context, foodID int64) ([]int64, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT DISTINCT p.user_id FROM diet_plans p JOIN diet_meals m ON m.diet_plan_id = p.id JOIN diet_foods f ON f.diet_meal_id = m.id WHERE f.food_id = $1;",
		foodID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
