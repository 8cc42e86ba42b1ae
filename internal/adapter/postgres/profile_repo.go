package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitcenter/internal/domain"
)

// GetProfile returns the profile of a user, or nil.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	var trainer sql.NullInt64
	err := d.sql.QueryRowContext(ctx,
		"SELECT user_id, age, sex, height_cm, weight_kg, activity_level, goal, training_days, trainer_id, updated_at FROM profiles WHERE user_id = $1;",
		userID,
	).Scan(&p.UserID, &p.Age, &p.Sex, &p.HeightCm, &p.WeightKg, &p.ActivityLevel, &p.Goal, &p.TrainingDaysPerWeek, &trainer, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if trainer.Valid {
		p.AssignedTrainerID = &trainer.Int64
	}
	return &p, nil
}

// UpsertProfile creates or replaces a profile.
func (d *DB) UpsertProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	p.UpdatedAt = time.Now().UTC()
	var trainer sql.NullInt64
	if p.AssignedTrainerID != nil {
		trainer = sql.NullInt64{Int64: *p.AssignedTrainerID, Valid: true}
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO profiles (user_id, age, sex, height_cm, weight_kg, activity_level, goal, training_days, trainer_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id) DO UPDATE SET
	age = EXCLUDED.age, sex = EXCLUDED.sex, height_cm = EXCLUDED.height_cm, weight_kg = EXCLUDED.weight_kg,
	activity_level = EXCLUDED.activity_level, goal = EXCLUDED.goal, training_days = EXCLUDED.training_days,
	trainer_id = EXCLUDED.trainer_id, updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.Age, p.Sex, p.HeightCm, p.WeightKg, p.ActivityLevel, p.Goal, p.TrainingDaysPerWeek, trainer, p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
