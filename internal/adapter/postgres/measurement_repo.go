package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitcenter/internal/domain"
)

const measurementColumns = "id, user_id, captured_at, age, sex, height_cm, weight_kg, training_days, goal, neck, chest, arm, waist, hips, glute, leg, body_fat, bmr, tdee, target_calories"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (domain.Measurement, error) {
	var m domain.Measurement
	err := row.Scan(&m.ID, &m.UserID, &m.CapturedAt, &m.Age, &m.Sex, &m.HeightCm, &m.WeightKg,
		&m.TrainingDaysPerWeek, &m.Goal, &m.Neck, &m.Chest, &m.Arm, &m.Waist, &m.Hips, &m.Glute, &m.Leg,
		&m.BodyFatPercent, &m.BMR, &m.TDEE, &m.TargetCalories)
	return m, err
}

// AddMeasurement inserts a new measurement.
func (d *DB) AddMeasurement(ctx context.Context, m domain.Measurement) (*domain.Measurement, error) {
	if m.CapturedAt.IsZero() {
		m.CapturedAt = time.Now()
	}
	m.CapturedAt = m.CapturedAt.UTC()
	err := d.sql.QueryRowContext(ctx, `
INSERT INTO measurements (user_id, captured_at, age, sex, height_cm, weight_kg, training_days, goal,
	neck, chest, arm, waist, hips, glute, leg, body_fat, bmr, tdee, target_calories)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
RETURNING id;`,
		m.UserID, m.CapturedAt, m.Age, m.Sex, m.HeightCm, m.WeightKg, m.TrainingDaysPerWeek, m.Goal,
		m.Neck, m.Chest, m.Arm, m.Waist, m.Hips, m.Glute, m.Leg, m.BodyFatPercent, m.BMR, m.TDEE, m.TargetCalories,
	).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LatestMeasurement returns the most recently captured measurement, or nil.
func (d *DB) LatestMeasurement(ctx context.Context, userID int64) (*domain.Measurement, error) {
	m, err := scanMeasurement(d.sql.QueryRowContext(ctx,
		"SELECT "+measurementColumns+" FROM measurements WHERE user_id = $1 ORDER BY captured_at DESC, id DESC LIMIT 1;",
		userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMeasurements lists measurements newest first.
func (d *DB) ListMeasurements(ctx context.Context, userID int64) ([]domain.Measurement, error) {
	return d.queryMeasurements(ctx,
		"SELECT "+measurementColumns+" FROM measurements WHERE user_id = $1 ORDER BY captured_at DESC, id DESC;",
		userID,
	)
}

// ListMeasurementsBetween lists measurements in [from, to), oldest first.
func (d *DB) ListMeasurementsBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Measurement, error) {
	return d.queryMeasurements(ctx,
		"SELECT "+measurementColumns+" FROM measurements WHERE user_id = $1 AND captured_at >= $2 AND captured_at < $3 ORDER BY captured_at ASC, id ASC;",
		userID, from.UTC(), to.UTC(),
	)
}

func (d *DB) queryMeasurements(ctx context.Context, query string, args ...any) ([]domain.Measurement, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Measurement, 0)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
