// Package nutrition estimates energy needs from biometric data and builds
// weekly diet plans from the food catalog.
package nutrition

import (
	"errors"
	"fmt"
	"math"

	"fitcenter/internal/domain"
)

// ErrNoBiometricData is returned when neither a measurement nor a profile is
// available to estimate from.
var ErrNoBiometricData = errors.New("no biometric data available")

// MacroPolicy selects how the daily calorie target is split into macros.
type MacroPolicy string

const (
	// MacroPercentage splits calories 30/40/30 across protein/carbs/fat.
	MacroPercentage MacroPolicy = "percentage"
	// MacroBodyWeight prescribes protein and fat per kg of body weight and
	// fills the remainder with carbohydrate.
	MacroBodyWeight MacroPolicy = "weight"
)

// Valid reports whether m is a known policy.
func (m MacroPolicy) Valid() bool {
	return m == MacroPercentage || m == MacroBodyWeight
}

const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// Policy holds the tunable constants of the estimator.
type Policy struct {
	GainSurplus float64
	LoseDeficit float64
	Macros      MacroPolicy
	// FallbackCalories replaces a non-positive calorie target.
	FallbackCalories float64
}

// DefaultPolicy returns the canonical policy: +500/-500 kcal and the
// percentage macro split.
func DefaultPolicy() Policy {
	return Policy{GainSurplus: 500, LoseDeficit: 500, Macros: MacroPercentage, FallbackCalories: 2000}
}

// Macros are daily macronutrient totals in grams.
type Macros struct {
	ProteinG int `json:"proteinGrams"`
	CarbsG   int `json:"carbohydrateGrams"`
	FatG     int `json:"fatGrams"`
}

// Estimation is the output of the estimator. BMR, TDEE and TargetCalories are
// rounded to whole kilocalories.
type Estimation struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"targetCalories"`
	Macros
}

// BMR returns the Mifflin-St Jeor basal metabolic rate. Every sex other than
// male uses the female offset; there is no separate constant for "other".
func BMR(age int, sex domain.Sex, heightCm, weightKg float64) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == domain.SexMale {
		return base + 5
	}
	return base - 161
}

// TrainingDaysMultiplier maps weekly training days to an activity factor.
func TrainingDaysMultiplier(days int) float64 {
	switch {
	case days >= 7:
		return 1.9
	case days >= 5:
		return 1.725
	case days >= 3:
		return 1.55
	case days >= 1:
		return 1.375
	default:
		return 1.2
	}
}

var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// ActivityLevelMultiplier maps a stored activity descriptor to an activity
// factor.
func ActivityLevelMultiplier(level domain.ActivityLevel) (float64, bool) {
	m, ok := activityMultipliers[level]
	return m, ok
}

// TargetCalories adjusts TDEE for the goal.
func TargetCalories(tdee float64, goal domain.Goal, p Policy) float64 {
	switch goal {
	case domain.GoalGain:
		return tdee + p.GainSurplus
	case domain.GoalLose:
		return tdee - p.LoseDeficit
	default:
		return tdee
	}
}

// SplitMacros divides a calorie target into gram totals.
func SplitMacros(targetKcal, weightKg float64, policy MacroPolicy) Macros {
	if policy == MacroBodyWeight {
		protein := math.Round(weightKg * 2.0)
		fat := math.Round(weightKg * 0.9)
		remaining := targetKcal - (protein*kcalPerGramProtein + fat*kcalPerGramFat)
		carbs := math.Max(0, math.Round(remaining/kcalPerGramCarbs))
		return Macros{ProteinG: int(protein), CarbsG: int(carbs), FatG: int(fat)}
	}
	kcal := math.Max(0, targetKcal)
	return Macros{
		ProteinG: int(math.Round(kcal * 0.30 / kcalPerGramProtein)),
		CarbsG:   int(math.Round(kcal * 0.40 / kcalPerGramCarbs)),
		FatG:     int(math.Round(kcal * 0.30 / kcalPerGramFat)),
	}
}

// BodyFatPercent estimates body fat with the US Navy circumference method,
// rounded to one decimal. Missing measurements or an out-of-domain logarithm
// yield 0.
func BodyFatPercent(sex domain.Sex, heightCm, neck, waist, hips float64) float64 {
	if waist <= 0 || neck <= 0 || heightCm <= 0 {
		return 0
	}
	var bf float64
	if sex == domain.SexMale {
		if waist-neck <= 0 {
			return 0
		}
		bf = 495/(1.0324-0.19077*math.Log10(waist-neck)+0.15456*math.Log10(heightCm)) - 450
	} else {
		if hips <= 0 || waist+hips-neck <= 0 {
			return 0
		}
		bf = 495/(1.29579-0.35004*math.Log10(waist+hips-neck)+0.22100*math.Log10(heightCm)) - 450
	}
	if math.IsNaN(bf) || math.IsInf(bf, 0) || bf <= 0 {
		return 0
	}
	return math.Round(bf*10) / 10
}

// Estimate derives energy needs from a biometric input using the weekly
// training days as the activity factor.
func Estimate(in domain.BiometricInput, p Policy) Estimation {
	return estimate(in.Age, in.Sex, in.HeightCm, in.WeightKg, TrainingDaysMultiplier(in.TrainingDaysPerWeek), in.Goal, p)
}

// EstimateFromProfile derives energy needs from a stored profile using its
// activity descriptor as the activity factor.
func EstimateFromProfile(pr domain.Profile, p Policy) (Estimation, error) {
	mult, ok := ActivityLevelMultiplier(pr.ActivityLevel)
	if !ok {
		return Estimation{}, fmt.Errorf("unknown activity level %q", pr.ActivityLevel)
	}
	if pr.Age <= 0 || pr.HeightCm <= 0 || pr.WeightKg <= 0 {
		return Estimation{}, ErrNoBiometricData
	}
	return estimate(pr.Age, pr.Sex, pr.HeightCm, pr.WeightKg, mult, pr.Goal, p), nil
}

// Resolve picks the best available source: the latest measurement, then the
// profile. With neither it returns ErrNoBiometricData.
func Resolve(latest *domain.Measurement, profile *domain.Profile, p Policy) (Estimation, error) {
	if latest != nil {
		return Estimate(latest.BiometricInput, p), nil
	}
	if profile != nil {
		return EstimateFromProfile(*profile, p)
	}
	return Estimation{}, ErrNoBiometricData
}

func estimate(age int, sex domain.Sex, heightCm, weightKg, mult float64, goal domain.Goal, p Policy) Estimation {
	bmr := BMR(age, sex, heightCm, weightKg)
	tdee := bmr * mult
	target := TargetCalories(tdee, goal, p)
	// Any goal, maintain included, falls back when the target is non-positive.
	if target <= 0 && p.FallbackCalories > 0 {
		target = p.FallbackCalories
	}
	return Estimation{
		BMR:            math.Round(bmr),
		TDEE:           math.Round(tdee),
		TargetCalories: math.Round(target),
		Macros:         SplitMacros(target, weightKg, p.Macros),
	}
}
