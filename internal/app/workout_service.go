package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitcenter/internal/domain"
)

// WorkoutService manages trainer-assigned workout plans.
type WorkoutService struct {
	repo  domain.WorkoutRepository
	users domain.UserRepository
	cache readCache
}

// NewWorkoutService creates a WorkoutService. cache may be nil.
func NewWorkoutService(repo domain.WorkoutRepository, users domain.UserRepository, cache domain.Cache, ttl time.Duration) *WorkoutService {
	return &WorkoutService{repo: repo, users: users, cache: newReadCache(cache, ttl)}
}

// ListMine returns the user's workout plans, most recently updated first.
func (s *WorkoutService) ListMine(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	return cached(ctx, s.cache, workoutsKey(userID), func(ctx context.Context) ([]domain.WorkoutPlan, error) {
		return s.repo.ListWorkoutPlans(ctx, userID)
	})
}

// UserPlan returns the latest plan of a user for a privileged caller, or nil.
func (s *WorkoutService) UserPlan(ctx context.Context, caller *domain.User, userID int64) (*domain.WorkoutPlan, error) {
	if _, err := actingOn(caller, &userID); err != nil {
		return nil, err
	}
	return s.repo.LatestWorkoutPlan(ctx, userID)
}

// Upsert creates or replaces the plan the trainer assigned to a user. raw is
// any accepted representation of the plan's days.
func (s *WorkoutService) Upsert(ctx context.Context, trainer *domain.User, userID int64, raw json.RawMessage) (*domain.WorkoutPlan, error) {
	if !trainer.Role.Privileged() {
		return nil, ErrForbidden
	}
	days, err := domain.NormalizeWorkoutDays(raw)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWorkoutDays) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}
	for _, d := range days {
		if d.Day < 1 || d.Day > 7 {
			return nil, invalid("day must be between 1 and 7")
		}
	}

	member, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	existing, err := s.repo.FindWorkoutPlan(ctx, userID, trainer.ID)
	if err != nil {
		return nil, err
	}

	var saved *domain.WorkoutPlan
	if existing != nil {
		saved, err = s.repo.UpdateWorkoutDays(ctx, existing.ID, days)
	} else {
		trainerID := trainer.ID
		saved, err = s.repo.CreateWorkoutPlan(ctx, domain.WorkoutPlan{UserID: userID, TrainerID: &trainerID, Days: days})
	}
	if err != nil {
		return nil, fmt.Errorf("save workout plan: %w", err)
	}
	s.cache.invalidate(ctx, workoutsKey(userID))
	return saved, nil
}
