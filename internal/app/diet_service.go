package app

import (
	"context"
	"fmt"
	"time"

	"fitcenter/internal/domain"
	"fitcenter/internal/logger"
	"fitcenter/internal/nutrition"
)

// DietService generates and serves weekly diet plans.
type DietService struct {
	diets        domain.DietRepository
	foods        domain.FoodRepository
	measurements domain.MeasurementRepository
	profiles     domain.ProfileRepository
	policy       nutrition.Policy
	cache        readCache
	pick         nutrition.Picker
}

// NewDietService creates a DietService. cache may be nil.
func NewDietService(
	diets domain.DietRepository,
	foods domain.FoodRepository,
	measurements domain.MeasurementRepository,
	profiles domain.ProfileRepository,
	policy nutrition.Policy,
	cache domain.Cache,
	ttl time.Duration,
) *DietService {
	return &DietService{
		diets:        diets,
		foods:        foods,
		measurements: measurements,
		profiles:     profiles,
		policy:       policy,
		cache:        newReadCache(cache, ttl),
	}
}

// WithPicker replaces the random food selector.
func (s *DietService) WithPicker(pick nutrition.Picker) *DietService {
	s.pick = pick
	return s
}

// Generate builds and stores a new plan for the caller, or for targetUserID
// when the caller is privileged.
func (s *DietService) Generate(ctx context.Context, caller *domain.User, targetUserID *int64) (*domain.DietPlan, error) {
	userID, err := actingOn(caller, targetUserID)
	if err != nil {
		return nil, err
	}

	latest, err := s.measurements.LatestMeasurement(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load measurement: %w", err)
	}
	var profile *domain.Profile
	if latest == nil {
		if profile, err = s.profiles.GetProfile(ctx, userID); err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}
	est, err := nutrition.Resolve(latest, profile, s.policy)
	if err != nil {
		return nil, err
	}

	items, err := s.foods.ListFoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog := nutrition.NewCatalog(items)
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	plan, skipped, err := nutrition.BuildPlan(userID, est, catalog, s.pick)
	if err != nil {
		return nil, err
	}
	for _, it := range skipped {
		logger.Warn("diet plan for user %d: skipped %q (%s), no macro density", userID, it.Name, it.Category)
	}

	saved, err := s.diets.CreateDietPlan(ctx, *plan)
	if err != nil {
		return nil, fmt.Errorf("create diet plan: %w", err)
	}
	s.cache.invalidate(ctx, dietLatestKey(userID))

	// Re-read so food entries come back resolved and ordered.
	full, err := s.diets.LatestDietPlan(ctx, userID)
	if err != nil || full == nil || full.ID != saved.ID {
		return saved, nil
	}
	return full, nil
}

// Latest returns the user's most recent plan, or nil.
func (s *DietService) Latest(ctx context.Context, userID int64) (*domain.DietPlan, error) {
	return cached(ctx, s.cache, dietLatestKey(userID), func(ctx context.Context) (*domain.DietPlan, error) {
		return s.diets.LatestDietPlan(ctx, userID)
	})
}

// AddFood adds a catalog item to a meal of an existing plan.
func (s *DietService) AddFood(ctx context.Context, caller *domain.User, mealID, foodID int64, grams int) (*domain.DietFood, error) {
	if grams < 0 {
		return nil, invalid("portionGram must be >= 0")
	}
	owner, ok, err := s.diets.MealOwner(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: meal %d", ErrNotFound, mealID)
	}
	if _, err := actingOn(caller, &owner); err != nil {
		return nil, err
	}

	food, err := s.foods.GetFood(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, fmt.Errorf("%w: food %d", ErrNotFound, foodID)
	}

	added, err := s.diets.AddDietFood(ctx, domain.DietFood{DietMealID: mealID, FoodID: foodID, PortionGram: grams})
	if err != nil {
		return nil, fmt.Errorf("add diet food: %w", err)
	}
	s.cache.invalidate(ctx, dietLatestKey(owner))
	return added, nil
}

// RemoveFood removes a food entry from a plan.
func (s *DietService) RemoveFood(ctx context.Context, caller *domain.User, dietFoodID int64) error {
	owner, ok, err := s.diets.DietFoodOwner(ctx, dietFoodID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: diet food %d", ErrNotFound, dietFoodID)
	}
	if _, err := actingOn(caller, &owner); err != nil {
		return err
	}
	if err := s.diets.DeleteDietFood(ctx, dietFoodID); err != nil {
		return fmt.Errorf("delete diet food: %w", err)
	}
	s.cache.invalidate(ctx, dietLatestKey(owner))
	return nil
}
