package domain

import (
	"context"
	"time"
)

// Sex is the biological sex used by the energy formulas.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Valid reports whether s is a known sex value.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale || s == SexOther
}

// Goal is the body-composition goal that drives the calorie target.
type Goal string

const (
	GoalGain     Goal = "gain"
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
)

// Valid reports whether g is a known goal.
func (g Goal) Valid() bool {
	return g == GoalGain || g == GoalLose || g == GoalMaintain
}

// ActivityLevel is the coarse activity descriptor stored on a profile.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Valid reports whether a is a known activity level.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// BiometricInput is the per-calculation input of the estimator.
type BiometricInput struct {
	Age                 int     `json:"age"`
	Sex                 Sex     `json:"sex"`
	HeightCm            float64 `json:"heightCm"`
	WeightKg            float64 `json:"weightKg"`
	TrainingDaysPerWeek int     `json:"trainingDaysPerWeek"`
	Goal                Goal    `json:"goal"`
}

// Profile is the user's stored biometric profile.
type Profile struct {
	UserID              int64         `json:"userId"`
	Age                 int           `json:"age"`
	Sex                 Sex           `json:"sex"`
	HeightCm            float64       `json:"heightCm"`
	WeightKg            float64       `json:"weightKg"`
	ActivityLevel       ActivityLevel `json:"activityLevel"`
	Goal                Goal          `json:"goal"`
	TrainingDaysPerWeek int           `json:"trainingDaysPerWeek"`
	AssignedTrainerID   *int64        `json:"assignedTrainerId"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// DefaultProfile is the profile given to newly registered users.
func DefaultProfile(userID int64) Profile {
	return Profile{
		UserID:              userID,
		Age:                 25,
		Sex:                 SexOther,
		HeightCm:            170,
		WeightKg:            70,
		ActivityLevel:       ActivityModerate,
		Goal:                GoalMaintain,
		TrainingDaysPerWeek: 3,
	}
}

// ProfileRepository is the port for profile persistence.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpsertProfile(ctx context.Context, p Profile) (*Profile, error)
}
