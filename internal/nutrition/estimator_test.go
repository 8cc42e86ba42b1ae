package nutrition_test

import (
	"errors"
	"math"
	"testing"

	"fitcenter/internal/domain"
	"fitcenter/internal/nutrition"
)

func TestBMR(t *testing.T) {
	tests := []struct {
		name string
		sex  domain.Sex
		want float64
	}{
		{"male", domain.SexMale, 1680},
		{"female", domain.SexFemale, 1514},
		{"other uses female offset", domain.SexOther, 1514},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := nutrition.BMR(30, tc.sex, 180, 70)
			if got != tc.want {
				t.Errorf("BMR = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestTrainingDaysMultiplier(t *testing.T) {
	want := map[int]float64{
		0: 1.2, 1: 1.375, 2: 1.375, 3: 1.55, 4: 1.55,
		5: 1.725, 6: 1.725, 7: 1.9, 9: 1.9, -1: 1.2,
	}
	for days, m := range want {
		if got := nutrition.TrainingDaysMultiplier(days); got != m {
			t.Errorf("TrainingDaysMultiplier(%d) = %v; want %v", days, got, m)
		}
	}
}

func TestActivityLevelMultiplier(t *testing.T) {
	tests := []struct {
		level domain.ActivityLevel
		want  float64
	}{
		{domain.ActivitySedentary, 1.2},
		{domain.ActivityLight, 1.375},
		{domain.ActivityModerate, 1.55},
		{domain.ActivityActive, 1.725},
		{domain.ActivityVeryActive, 1.9},
	}
	for _, tc := range tests {
		got, ok := nutrition.ActivityLevelMultiplier(tc.level)
		if !ok || got != tc.want {
			t.Errorf("ActivityLevelMultiplier(%s) = %v, %v; want %v", tc.level, got, ok, tc.want)
		}
	}
	if _, ok := nutrition.ActivityLevelMultiplier("couch"); ok {
		t.Error("expected unknown level to be rejected")
	}
}

func TestEstimate_TDEEFollowsMultiplier(t *testing.T) {
	for days := 0; days <= 7; days++ {
		in := domain.BiometricInput{Age: 40, Sex: domain.SexMale, HeightCm: 175, WeightKg: 80, TrainingDaysPerWeek: days, Goal: domain.GoalMaintain}
		bmr := nutrition.BMR(in.Age, in.Sex, in.HeightCm, in.WeightKg)
		est := nutrition.Estimate(in, nutrition.DefaultPolicy())
		want := math.Round(bmr * nutrition.TrainingDaysMultiplier(days))
		if est.TDEE != want {
			t.Errorf("days=%d: TDEE = %v; want %v", days, est.TDEE, want)
		}
		if est.TargetCalories != est.TDEE {
			t.Errorf("days=%d: maintain target %v != tdee %v", days, est.TargetCalories, est.TDEE)
		}
	}
}

func TestEstimate_FemaleMaintainScenario(t *testing.T) {
	in := domain.BiometricInput{Age: 25, Sex: domain.SexFemale, HeightCm: 165, WeightKg: 60, TrainingDaysPerWeek: 3, Goal: domain.GoalMaintain}
	est := nutrition.Estimate(in, nutrition.DefaultPolicy())
	if est.BMR != 1345 {
		t.Errorf("BMR = %v; want 1345", est.BMR)
	}
	if est.TDEE != 2085 {
		t.Errorf("TDEE = %v; want 2085", est.TDEE)
	}
	if est.TargetCalories != 2085 {
		t.Errorf("TargetCalories = %v; want 2085", est.TargetCalories)
	}
}

// A non-positive target is replaced by the policy fallback for every goal,
// so maintain only equals round(tdee) while tdee is positive.
func TestEstimate_FallbackOnNonPositiveTarget(t *testing.T) {
	degenerate := domain.BiometricInput{Age: 120, Sex: domain.SexFemale, HeightCm: 1, WeightKg: 1, TrainingDaysPerWeek: 0, Goal: domain.GoalMaintain}
	est := nutrition.Estimate(degenerate, nutrition.DefaultPolicy())
	if est.TDEE >= 0 {
		t.Fatalf("expected negative TDEE, got %v", est.TDEE)
	}
	if est.TargetCalories != 2000 {
		t.Errorf("maintain with negative TDEE: target = %v; want fallback 2000", est.TargetCalories)
	}

	small := domain.BiometricInput{Age: 80, Sex: domain.SexFemale, HeightCm: 100, WeightKg: 30, TrainingDaysPerWeek: 0, Goal: domain.GoalLose}
	est = nutrition.Estimate(small, nutrition.DefaultPolicy())
	if est.TDEE <= 0 || est.TDEE >= 500 {
		t.Fatalf("expected TDEE between 0 and 500, got %v", est.TDEE)
	}
	if est.TargetCalories != 2000 {
		t.Errorf("lose below zero: target = %v; want fallback 2000", est.TargetCalories)
	}

	noFallback := nutrition.DefaultPolicy()
	noFallback.FallbackCalories = 0
	est = nutrition.Estimate(degenerate, noFallback)
	if est.TargetCalories != est.TDEE {
		t.Errorf("without fallback maintain target %v != tdee %v", est.TargetCalories, est.TDEE)
	}
}

func TestTargetCalories(t *testing.T) {
	p := nutrition.DefaultPolicy()
	if got := nutrition.TargetCalories(2000, domain.GoalGain, p); got != 2500 {
		t.Errorf("gain = %v", got)
	}
	if got := nutrition.TargetCalories(2000, domain.GoalLose, p); got != 1500 {
		t.Errorf("lose = %v", got)
	}
	if got := nutrition.TargetCalories(2000, domain.GoalMaintain, p); got != 2000 {
		t.Errorf("maintain = %v", got)
	}

	alt := nutrition.Policy{GainSurplus: 300, LoseDeficit: 400}
	if got := nutrition.TargetCalories(2000, domain.GoalGain, alt); got != 2300 {
		t.Errorf("alt gain = %v", got)
	}
	if got := nutrition.TargetCalories(2000, domain.GoalLose, alt); got != 1600 {
		t.Errorf("alt lose = %v", got)
	}
}

func TestSplitMacros(t *testing.T) {
	pct := nutrition.SplitMacros(2000, 70, nutrition.MacroPercentage)
	if pct.ProteinG != 150 || pct.CarbsG != 200 || pct.FatG != 67 {
		t.Errorf("percentage split = %+v", pct)
	}

	w := nutrition.SplitMacros(2000, 70, nutrition.MacroBodyWeight)
	// 140 g protein (560 kcal), 63 g fat (567 kcal), (2000-1127)/4 = 218.25
	if w.ProteinG != 140 || w.FatG != 63 || w.CarbsG != 218 {
		t.Errorf("weight split = %+v", w)
	}

	floor := nutrition.SplitMacros(800, 100, nutrition.MacroBodyWeight)
	if floor.CarbsG != 0 {
		t.Errorf("expected carbs floored at 0, got %d", floor.CarbsG)
	}
}

func TestBodyFatPercent(t *testing.T) {
	tests := []struct {
		name                    string
		sex                     domain.Sex
		height, neck, waist, hp float64
		want                    float64
	}{
		{"male", domain.SexMale, 180, 38, 85, 0, 16.1},
		{"female", domain.SexFemale, 165, 32, 70, 95, 24.9},
		{"male waist below neck", domain.SexMale, 180, 40, 38, 0, 0},
		{"male waist equal neck", domain.SexMale, 180, 40, 40, 0, 0},
		{"female without hips", domain.SexFemale, 165, 32, 70, 0, 0},
		{"missing waist", domain.SexMale, 180, 38, 0, 0, 0},
		{"missing height", domain.SexMale, 0, 38, 85, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := nutrition.BodyFatPercent(tc.sex, tc.height, tc.neck, tc.waist, tc.hp)
			if math.IsNaN(got) {
				t.Fatal("got NaN")
			}
			if math.Abs(got-tc.want) > 0.11 {
				t.Errorf("BodyFatPercent = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	p := nutrition.DefaultPolicy()
	m := &domain.Measurement{BiometricInput: domain.BiometricInput{Age: 25, Sex: domain.SexFemale, HeightCm: 165, WeightKg: 60, TrainingDaysPerWeek: 3, Goal: domain.GoalMaintain}}
	pr := &domain.Profile{Age: 25, Sex: domain.SexFemale, HeightCm: 165, WeightKg: 60, ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalMaintain}

	est, err := nutrition.Resolve(m, pr, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.TDEE != 2085 {
		t.Errorf("measurement path TDEE = %v; want 2085", est.TDEE)
	}

	est, err = nutrition.Resolve(nil, pr, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1345.25 * 1.2
	if est.TDEE != 1614 {
		t.Errorf("profile path TDEE = %v; want 1614", est.TDEE)
	}

	if _, err := nutrition.Resolve(nil, nil, p); !errors.Is(err, nutrition.ErrNoBiometricData) {
		t.Errorf("expected ErrNoBiometricData, got %v", err)
	}
}
