package domain

import (
	"context"
	"time"
)

// Measurement is an immutable historical snapshot of a user's body
// measurements and the values derived from them.
type Measurement struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	CapturedAt time.Time `json:"date"`

	BiometricInput

	Neck  float64 `json:"neck"`
	Chest float64 `json:"chest"`
	Arm   float64 `json:"arm"`
	Waist float64 `json:"waist"`
	Hips  float64 `json:"hips"`
	Glute float64 `json:"glute"`
	Leg   float64 `json:"leg"`

	BodyFatPercent float64 `json:"bodyFat"`
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"targetCalories"`
}

// MeasurementRepository is the port for measurement persistence.
type MeasurementRepository interface {
	AddMeasurement(ctx context.Context, m Measurement) (*Measurement, error)
	// LatestMeasurement returns the measurement with the greatest capture
	// date, or nil when the user has none.
	LatestMeasurement(ctx context.Context, userID int64) (*Measurement, error)
	// ListMeasurements returns measurements newest first.
	ListMeasurements(ctx context.Context, userID int64) ([]Measurement, error)
	// ListMeasurementsBetween returns measurements captured in [from, to),
	// oldest first.
	ListMeasurementsBetween(ctx context.Context, userID int64, from, to time.Time) ([]Measurement, error)
}
