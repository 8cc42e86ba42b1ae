package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Exercise is an entry of the exercise catalog.
type Exercise struct {
	ID          int64  `json:"id" yaml:"-"`
	Name        string `json:"name" yaml:"name"`
	MuscleGroup string `json:"muscleGroup" yaml:"muscle_group"`
	BodyPart    string `json:"bodyPart" yaml:"body_part"`
}

// ExerciseRepository is the port for the exercise catalog.
type ExerciseRepository interface {
	ListExercises(ctx context.Context) ([]Exercise, error)
	ListExercisesByMuscle(ctx context.Context, muscleGroup string) ([]Exercise, error)
	CreateExercise(ctx context.Context, e Exercise) (*Exercise, error)
	CountExercises(ctx context.Context) (int, error)
}

// WorkoutExercise is a prescribed exercise within a training day.
type WorkoutExercise struct {
	ExerciseID  *int64 `json:"exerciseId,omitempty"`
	Name        string `json:"name"`
	Sets        int    `json:"sets,omitempty"`
	Reps        string `json:"reps,omitempty"`
	RestSeconds int    `json:"restSeconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// WorkoutDay is one training day of a plan.
type WorkoutDay struct {
	Day       int               `json:"day"`
	Exercises []WorkoutExercise `json:"exercises"`
}

// WorkoutPlan is a trainer-assigned routine.
type WorkoutPlan struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	TrainerID *int64       `json:"trainerId"`
	Days      []WorkoutDay `json:"exercises"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// WorkoutRepository is the port for workout plan persistence.
type WorkoutRepository interface {
	ListWorkoutPlans(ctx context.Context, userID int64) ([]WorkoutPlan, error)
	LatestWorkoutPlan(ctx context.Context, userID int64) (*WorkoutPlan, error)
	FindWorkoutPlan(ctx context.Context, userID, trainerID int64) (*WorkoutPlan, error)
	CreateWorkoutPlan(ctx context.Context, p WorkoutPlan) (*WorkoutPlan, error)
	UpdateWorkoutDays(ctx context.Context, id int64, days []WorkoutDay) (*WorkoutPlan, error)
}

// ErrInvalidWorkoutDays is returned when a day payload has an unknown shape.
var ErrInvalidWorkoutDays = errors.New("exercises must be an array of days or an object keyed by day")

// NormalizeWorkoutDays converts any accepted representation of a plan's days
// into a list sorted by day number. Accepted shapes are an array of
// {day, exercises}, an object keyed by day number whose values are exercise
// arrays, a JSON string containing either, or null.
func NormalizeWorkoutDays(raw json.RawMessage) ([]WorkoutDay, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []WorkoutDay{}, nil
	}

	switch raw[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWorkoutDays, err)
		}
		if inner == "" {
			return []WorkoutDay{}, nil
		}
		return NormalizeWorkoutDays(json.RawMessage(inner))

	case '[':
		var days []WorkoutDay
		if err := json.Unmarshal(raw, &days); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWorkoutDays, err)
		}
		return sortDays(days), nil

	case '{':
		var keyed map[string][]WorkoutExercise
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWorkoutDays, err)
		}
		days := make([]WorkoutDay, 0, len(keyed))
		for k, ex := range keyed {
			n, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("%w: day key %q is not a number", ErrInvalidWorkoutDays, k)
			}
			days = append(days, WorkoutDay{Day: n, Exercises: ex})
		}
		return sortDays(days), nil
	}
	return nil, ErrInvalidWorkoutDays
}

func sortDays(days []WorkoutDay) []WorkoutDay {
	for i := range days {
		if days[i].Exercises == nil {
			days[i].Exercises = []WorkoutExercise{}
		}
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return days
}
