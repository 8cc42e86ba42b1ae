package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fitcenter/internal/domain"
)

const foodColumns = "id, name, category, calories, protein, carbs, fat"

func scanFood(row rowScanner) (domain.FoodItem, error) {
	var f domain.FoodItem
	err := row.Scan(&f.ID, &f.Name, &f.Category, &f.Calories, &f.ProteinG, &f.CarbsG, &f.FatG)
	return f, err
}

// ListFoods lists the food catalog ordered by category then name.
func (d *DB) ListFoods(ctx context.Context) ([]domain.FoodItem, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+foodColumns+" FROM food_items ORDER BY category, name;")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.FoodItem, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetFood retrieves a catalog item, or nil.
func (d *DB) GetFood(ctx context.Context, id int64) (*domain.FoodItem, error) {
	f, err := scanFood(d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM food_items WHERE id = $1;", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFood adds a catalog item.
func (d *DB) CreateFood(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO food_items (name, category, calories, protein, carbs, fat) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;",
		f.Name, f.Category, f.Calories, f.ProteinG, f.CarbsG, f.FatG,
	).Scan(&f.ID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFood replaces a catalog item. It returns nil when the item does not exist.
func (d *DB) UpdateFood(ctx context.Context, f domain.FoodItem) (*domain.FoodItem, error) {
	res, err := d.sql.ExecContext(ctx,
		"UPDATE food_items SET name = $2, category = $3, calories = $4, protein = $5, carbs = $6, fat = $7 WHERE id = $1;",
		f.ID, f.Name, f.Category, f.Calories, f.ProteinG, f.CarbsG, f.FatG,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return &f, nil
}

// DeleteFood removes a catalog item.
func (d *DB) DeleteFood(ctx context.Context, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM food_items WHERE id = $1;", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountFoods returns the catalog size.
func (d *DB) CountFoods(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM food_items;").Scan(&n)
	return n, err
}

// ListExercises lists the exercise catalog by name.
func (d *DB) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return d.queryExercises(ctx, "SELECT id, name, muscle_group, body_part FROM exercises ORDER BY name;")
}

// ListExercisesByMuscle lists exercises of one muscle group by name.
func (d *DB) ListExercisesByMuscle(ctx context.Context, muscleGroup string) ([]domain.Exercise, error) {
	return d.queryExercises(ctx,
		"SELECT id, name, muscle_group, body_part FROM exercises WHERE lower(muscle_group) = lower($1) ORDER BY name;",
		muscleGroup,
	)
}

func (d *DB) queryExercises(ctx context.Context, query string, args ...any) ([]domain.Exercise, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Exercise, 0)
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.BodyPart); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateExercise adds an exercise.
func (d *DB) CreateExercise(ctx context.Context, e domain.Exercise) (*domain.Exercise, error) {
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO exercises (name, muscle_group, body_part) VALUES ($1, $2, $3) RETURNING id;",
		e.Name, e.MuscleGroup, e.BodyPart,
	).Scan(&e.ID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountExercises returns the exercise catalog size.
func (d *DB) CountExercises(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM exercises;").Scan(&n)
	return n, err
}
