package app

import (
	"context"
	"fmt"
	"time"

	"fitcenter/internal/domain"
	"fitcenter/internal/nutrition"
)

// MeasurementInput is a measurement as submitted. Nil biometric fields are
// filled from the profile, then from defaults.
type MeasurementInput struct {
	Date                *time.Time   `json:"date"`
	Age                 *int         `json:"age"`
	Sex                 *domain.Sex  `json:"sex"`
	HeightCm            *float64     `json:"heightCm"`
	Weight              *float64     `json:"weight"`
	WeightUnit          string       `json:"weightUnit"`
	TrainingDaysPerWeek *int         `json:"trainingDaysPerWeek"`
	Goal                *domain.Goal `json:"goal"`

	Neck  float64 `json:"neck"`
	Chest float64 `json:"chest"`
	Arm   float64 `json:"arm"`
	Waist float64 `json:"waist"`
	Hips  float64 `json:"hips"`
	Glute float64 `json:"glute"`
	Leg   float64 `json:"leg"`

	BodyFat *float64 `json:"bodyFat"`
}

// MeasurementService encapsulates body measurement use cases.
type MeasurementService struct {
	repo     domain.MeasurementRepository
	profiles domain.ProfileRepository
	policy   nutrition.Policy
	cache    readCache
}

// NewMeasurementService creates a MeasurementService. cache may be nil.
func NewMeasurementService(repo domain.MeasurementRepository, profiles domain.ProfileRepository, policy nutrition.Policy, cache domain.Cache, ttl time.Duration) *MeasurementService {
	return &MeasurementService{repo: repo, profiles: profiles, policy: policy, cache: newReadCache(cache, ttl)}
}

// Record validates and stores a new measurement with its derived energy
// estimates, and syncs the profile's age, height and weight.
func (s *MeasurementService) Record(ctx context.Context, userID int64, in MeasurementInput) (*domain.Measurement, error) {
	if in.WeightUnit != "" && in.WeightUnit != "kg" && in.WeightUnit != "lb" {
		return nil, invalid("weightUnit must be \"kg\" or \"lb\"")
	}
	for name, v := range map[string]float64{
		"neck": in.Neck, "chest": in.Chest, "arm": in.Arm, "waist": in.Waist,
		"hips": in.Hips, "glute": in.Glute, "leg": in.Leg,
	} {
		if v < 0 {
			return nil, invalid("%s must be >= 0", name)
		}
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		d := domain.DefaultProfile(userID)
		profile = &d
	}

	bio, err := resolveBiometrics(in, *profile)
	if err != nil {
		return nil, err
	}

	m := domain.Measurement{
		UserID:         userID,
		BiometricInput: bio,
		Neck:           in.Neck,
		Chest:          in.Chest,
		Arm:            in.Arm,
		Waist:          in.Waist,
		Hips:           in.Hips,
		Glute:          in.Glute,
		Leg:            in.Leg,
	}
	if in.Date != nil {
		m.CapturedAt = *in.Date
	} else {
		m.CapturedAt = time.Now()
	}
	if in.BodyFat != nil {
		if *in.BodyFat < 0 || *in.BodyFat > 100 {
			return nil, invalid("bodyFat must be between 0 and 100")
		}
		m.BodyFatPercent = *in.BodyFat
	} else {
		m.BodyFatPercent = nutrition.BodyFatPercent(bio.Sex, bio.HeightCm, in.Neck, in.Waist, in.Hips)
	}

	est := nutrition.Estimate(bio, s.policy)
	m.BMR, m.TDEE, m.TargetCalories = est.BMR, est.TDEE, est.TargetCalories

	saved, err := s.repo.AddMeasurement(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("add measurement: %w", err)
	}

	profile.Age, profile.HeightCm, profile.WeightKg = bio.Age, bio.HeightCm, bio.WeightKg
	if _, err := s.profiles.UpsertProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("sync profile: %w", err)
	}

	s.cache.invalidate(ctx,
		measurementsKey(userID),
		profileKey(userID),
		progressKey(userID, saved.CapturedAt.UTC().Year()),
	)
	return saved, nil
}

func resolveBiometrics(in MeasurementInput, p domain.Profile) (domain.BiometricInput, error) {
	def := domain.DefaultProfile(p.UserID)
	bio := domain.BiometricInput{
		Age:                 firstPositive(p.Age, def.Age),
		Sex:                 p.Sex,
		HeightCm:            firstPositiveF(p.HeightCm, def.HeightCm),
		WeightKg:            firstPositiveF(p.WeightKg, def.WeightKg),
		TrainingDaysPerWeek: p.TrainingDaysPerWeek,
		Goal:                p.Goal,
	}
	if !bio.Sex.Valid() {
		bio.Sex = def.Sex
	}
	if !bio.Goal.Valid() {
		bio.Goal = def.Goal
	}
	if bio.TrainingDaysPerWeek < 0 || bio.TrainingDaysPerWeek > 7 {
		bio.TrainingDaysPerWeek = def.TrainingDaysPerWeek
	}

	if in.Age != nil {
		if *in.Age <= 0 || *in.Age > 120 {
			return bio, invalid("age must be between 1 and 120")
		}
		bio.Age = *in.Age
	}
	if in.Sex != nil {
		if !in.Sex.Valid() {
			return bio, invalid("sex must be male, female or other")
		}
		bio.Sex = *in.Sex
	}
	if in.HeightCm != nil {
		if *in.HeightCm <= 0 {
			return bio, invalid("heightCm must be > 0")
		}
		bio.HeightCm = *in.HeightCm
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			return bio, invalid("weight must be > 0")
		}
		bio.WeightKg = domain.WeightKg(*in.Weight, in.WeightUnit)
	}
	if in.TrainingDaysPerWeek != nil {
		if *in.TrainingDaysPerWeek < 0 || *in.TrainingDaysPerWeek > 7 {
			return bio, invalid("trainingDaysPerWeek must be between 0 and 7")
		}
		bio.TrainingDaysPerWeek = *in.TrainingDaysPerWeek
	}
	if in.Goal != nil {
		if !in.Goal.Valid() {
			return bio, invalid("goal must be gain, lose or maintain")
		}
		bio.Goal = *in.Goal
	}
	return bio, nil
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstPositiveF(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// List returns the user's measurements, newest first.
func (s *MeasurementService) List(ctx context.Context, userID int64) ([]domain.Measurement, error) {
	return cached(ctx, s.cache, measurementsKey(userID), func(ctx context.Context) ([]domain.Measurement, error) {
		return s.repo.ListMeasurements(ctx, userID)
	})
}

// ListForUser returns another user's measurements. Only privileged callers
// may use it.
func (s *MeasurementService) ListForUser(ctx context.Context, caller *domain.User, userID int64) ([]domain.Measurement, error) {
	if _, err := actingOn(caller, &userID); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}
