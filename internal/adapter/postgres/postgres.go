package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"fitcenter/internal/domain"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var _ domain.UserRepository = (*DB)(nil)
var _ domain.UserDirectory = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.MeasurementRepository = (*DB)(nil)
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.ExerciseRepository = (*DB)(nil)
var _ domain.DietRepository = (*DB)(nil)
var _ domain.WorkoutRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, name TEXT NOT NULL DEFAULT '', password_hash TEXT NOT NULL, role TEXT NOT NULL DEFAULT 'member' CHECK(role IN ('member','trainer','administrator','superadmin')), created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, user_agent TEXT NOT NULL DEFAULT '', ip TEXT NOT NULL DEFAULT '', expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
		"CREATE TABLE IF NOT EXISTS profiles (user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE, age INTEGER NOT NULL, sex TEXT NOT NULL CHECK(sex IN ('male','female','other')), height_cm DOUBLE PRECISION NOT NULL, weight_kg DOUBLE PRECISION NOT NULL, activity_level TEXT NOT NULL, goal TEXT NOT NULL CHECK(goal IN ('gain','lose','maintain')), training_days INTEGER NOT NULL, trainer_id BIGINT REFERENCES users(id) ON DELETE SET NULL, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS measurements (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, captured_at TIMESTAMPTZ NOT NULL, age INTEGER NOT NULL, sex TEXT NOT NULL, height_cm DOUBLE PRECISION NOT NULL, weight_kg DOUBLE PRECISION NOT NULL, training_days INTEGER NOT NULL, goal TEXT NOT NULL, neck DOUBLE PRECISION NOT NULL DEFAULT 0, chest DOUBLE PRECISION NOT NULL DEFAULT 0, arm DOUBLE PRECISION NOT NULL DEFAULT 0, waist DOUBLE PRECISION NOT NULL DEFAULT 0, hips DOUBLE PRECISION NOT NULL DEFAULT 0, glute DOUBLE PRECISION NOT NULL DEFAULT 0, leg DOUBLE PRECISION NOT NULL DEFAULT 0, body_fat DOUBLE PRECISION NOT NULL DEFAULT 0, bmr DOUBLE PRECISION NOT NULL, tdee DOUBLE PRECISION NOT NULL, target_calories DOUBLE PRECISION NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_measurements_user_captured ON measurements(user_id, captured_at);",
		"CREATE TABLE IF NOT EXISTS food_items (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL, category TEXT NOT NULL CHECK(category IN ('protein','carbohydrate','fat','vegetable')), calories DOUBLE PRECISION NOT NULL, protein DOUBLE PRECISION NOT NULL, carbs DOUBLE PRECISION NOT NULL, fat DOUBLE PRECISION NOT NULL);",
		"CREATE TABLE IF NOT EXISTS diet_plans (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, daily_calories INTEGER NOT NULL, protein_g INTEGER NOT NULL, carbs_g INTEGER NOT NULL, fat_g INTEGER NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_diet_plans_user_created ON diet_plans(user_id, created_at);",
		"CREATE TABLE IF NOT EXISTS diet_meals (id BIGSERIAL PRIMARY KEY, diet_plan_id BIGINT NOT NULL REFERENCES diet_plans(id) ON DELETE CASCADE, name TEXT NOT NULL, day INTEGER NOT NULL, meal_order INTEGER NOT NULL, ratio DOUBLE PRECISION NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_diet_meals_plan ON diet_meals(diet_plan_id);",
		"CREATE TABLE IF NOT EXISTS diet_foods (id BIGSERIAL PRIMARY KEY, diet_meal_id BIGINT NOT NULL REFERENCES diet_meals(id) ON DELETE CASCADE, food_id BIGINT NOT NULL REFERENCES food_items(id) ON DELETE CASCADE, portion_gram INTEGER NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_diet_foods_meal ON diet_foods(diet_meal_id);",
		"CREATE TABLE IF NOT EXISTS exercises (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL, muscle_group TEXT NOT NULL, body_part TEXT NOT NULL DEFAULT '');",
		"CREATE TABLE IF NOT EXISTS workout_plans (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, trainer_id BIGINT REFERENCES users(id) ON DELETE SET NULL, days JSONB NOT NULL DEFAULT '[]', created_at TIMESTAMPTZ NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_workout_plans_user ON workout_plans(user_id);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
