package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitcenter/internal/domain"
)

const workoutColumns = "id, user_id, trainer_id, days, created_at, updated_at"

func scanWorkout(row rowScanner) (domain.WorkoutPlan, error) {
	var (
		w       domain.WorkoutPlan
		trainer sql.NullInt64
		days    []byte
	)
	if err := row.Scan(&w.ID, &w.UserID, &trainer, &days, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return w, err
	}
	if trainer.Valid {
		w.TrainerID = &trainer.Int64
	}
	parsed, err := domain.NormalizeWorkoutDays(days)
	if err != nil {
		return w, fmt.Errorf("workout plan %d: %w", w.ID, err)
	}
	w.Days = parsed
	return w, nil
}

func (d *DB) oneWorkout(ctx context.Context, query string, args ...any) (*domain.WorkoutPlan, error) {
	w, err := scanWorkout(d.sql.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkoutPlans lists a user's workout plans, most recently updated first.
func (d *DB) ListWorkoutPlans(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+workoutColumns+" FROM workout_plans WHERE user_id = $1 ORDER BY updated_at DESC, id DESC;",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.WorkoutPlan, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// LatestWorkoutPlan returns the most recently created workout plan, or nil.
func (d *DB) LatestWorkoutPlan(ctx context.Context, userID int64) (*domain.WorkoutPlan, error) {
	return d.oneWorkout(ctx,
		"SELECT "+workoutColumns+" FROM workout_plans WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1;",
		userID,
	)
}

// FindWorkoutPlan returns the plan a trainer assigned to a user, or nil.
func (d *DB) FindWorkoutPlan(ctx context.Context, userID, trainerID int64) (*domain.WorkoutPlan, error) {
	return d.oneWorkout(ctx,
		"SELECT "+workoutColumns+" FROM workout_plans WHERE user_id = $1 AND trainer_id = $2 ORDER BY id DESC LIMIT 1;",
		userID, trainerID,
	)
}

// CreateWorkoutPlan stores a new workout plan.
func (d *DB) CreateWorkoutPlan(ctx context.Context, p domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	days, err := json.Marshal(nonNilDays(p.Days))
	if err != nil {
		return nil, err
	}
	var trainer sql.NullInt64
	if p.TrainerID != nil {
		trainer = sql.NullInt64{Int64: *p.TrainerID, Valid: true}
	}
	now := time.Now().UTC()
	return d.oneWorkout(ctx,
		"INSERT INTO workout_plans (user_id, trainer_id, days, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) RETURNING "+workoutColumns+";",
		p.UserID, trainer, string(days), now,
	)
}

// UpdateWorkoutDays replaces the days of a plan. It returns nil when the
// plan does not exist.
func (d *DB) UpdateWorkoutDays(ctx context.Context, id int64, days []domain.WorkoutDay) (*domain.WorkoutPlan, error) {
	b, err := json.Marshal(nonNilDays(days))
	if err != nil {
		return nil, err
	}
	return d.oneWorkout(ctx,
		"UPDATE workout_plans SET days = $2, updated_at = $3 WHERE id = $1 RETURNING "+workoutColumns+";",
		id, string(b), time.Now().UTC(),
	)
}

func nonNilDays(days []domain.WorkoutDay) []domain.WorkoutDay {
	if days == nil {
		return []domain.WorkoutDay{}
	}
	return days
}
