package app

import (
	"context"
	"fmt"
	"time"

	"fitcenter/internal/domain"
)

// ProfileUpdate is a partial profile update. Nil fields are left unchanged.
type ProfileUpdate struct {
	Age                 *int                  `json:"age"`
	Sex                 *domain.Sex           `json:"sex"`
	HeightCm            *float64              `json:"heightCm"`
	WeightKg            *float64              `json:"weightKg"`
	ActivityLevel       *domain.ActivityLevel `json:"activityLevel"`
	Goal                *domain.Goal          `json:"goal"`
	TrainingDaysPerWeek *int                  `json:"trainingDaysPerWeek"`
	AssignedTrainerID   *int64                `json:"assignedTrainerId"`
}

// ProfileService manages user profiles.
type ProfileService struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
	workouts domain.WorkoutRepository
	cache    readCache
}

// NewProfileService creates a ProfileService. cache may be nil.
func NewProfileService(profiles domain.ProfileRepository, users domain.UserRepository, workouts domain.WorkoutRepository, cache domain.Cache, ttl time.Duration) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, workouts: workouts, cache: newReadCache(cache, ttl)}
}

// Get returns the user's profile, creating the default one if missing.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.Profile, error) {
	return cached(ctx, s.cache, profileKey(userID), func(ctx context.Context) (*domain.Profile, error) {
		p, err := s.profiles.GetProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
		return s.profiles.UpsertProfile(ctx, domain.DefaultProfile(userID))
	})
}

// Update applies a partial update. When training days shrink, the latest
// workout plan keeps only that many days.
func (s *ProfileService) Update(ctx context.Context, userID int64, u ProfileUpdate) (*domain.Profile, error) {
	current, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		d := domain.DefaultProfile(userID)
		current = &d
	}
	p := *current
	prevDays := p.TrainingDaysPerWeek

	if err := applyBiometrics(&p, u); err != nil {
		return nil, err
	}
	if u.AssignedTrainerID != nil {
		trainer, err := s.users.GetByID(ctx, *u.AssignedTrainerID)
		if err != nil {
			return nil, err
		}
		if trainer == nil || !trainer.Role.Privileged() {
			return nil, invalid("assignedTrainerId must name a trainer")
		}
		p.AssignedTrainerID = u.AssignedTrainerID
	}

	saved, err := s.profiles.UpsertProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.cache.invalidate(ctx, profileKey(userID))

	if p.TrainingDaysPerWeek < prevDays {
		if err := s.truncateWorkout(ctx, userID, p.TrainingDaysPerWeek); err != nil {
			return nil, err
		}
	}
	return saved, nil
}

func (s *ProfileService) truncateWorkout(ctx context.Context, userID int64, days int) error {
	if s.workouts == nil {
		return nil
	}
	plan, err := s.workouts.LatestWorkoutPlan(ctx, userID)
	if err != nil {
		return err
	}
	if plan == nil || len(plan.Days) <= days {
		return nil
	}
	if _, err := s.workouts.UpdateWorkoutDays(ctx, plan.ID, plan.Days[:days]); err != nil {
		return fmt.Errorf("truncate workout plan: %w", err)
	}
	s.cache.invalidate(ctx, workoutsKey(userID))
	return nil
}

// applyBiometrics validates and copies the biometric fields of u onto p. The
// trainer assignment is left to the caller.
func applyBiometrics(p *domain.Profile, u ProfileUpdate) error {
	if u.Age != nil {
		if *u.Age <= 0 || *u.Age > 120 {
			return invalid("age must be between 1 and 120")
		}
		p.Age = *u.Age
	}
	if u.Sex != nil {
		if !u.Sex.Valid() {
			return invalid("sex must be male, female or other")
		}
		p.Sex = *u.Sex
	}
	if u.HeightCm != nil {
		if *u.HeightCm <= 0 {
			return invalid("heightCm must be > 0")
		}
		p.HeightCm = *u.HeightCm
	}
	if u.WeightKg != nil {
		if *u.WeightKg <= 0 {
			return invalid("weightKg must be > 0")
		}
		p.WeightKg = *u.WeightKg
	}
	if u.ActivityLevel != nil {
		if !u.ActivityLevel.Valid() {
			return invalid("unknown activity level %q", *u.ActivityLevel)
		}
		p.ActivityLevel = *u.ActivityLevel
	}
	if u.Goal != nil {
		if !u.Goal.Valid() {
			return invalid("goal must be gain, lose or maintain")
		}
		p.Goal = *u.Goal
	}
	if u.TrainingDaysPerWeek != nil {
		if *u.TrainingDaysPerWeek < 0 || *u.TrainingDaysPerWeek > 7 {
			return invalid("trainingDaysPerWeek must be between 0 and 7")
		}
		p.TrainingDaysPerWeek = *u.TrainingDaysPerWeek
	}
	return nil
}
