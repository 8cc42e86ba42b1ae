package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"fitcenter/internal/domain"
)

func TestNormalizeWorkoutDays(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantDays []int
		wantErr  bool
	}{
		{"null", `null`, nil, false},
		{"empty", ``, nil, false},
		{"array", `[{"day":2,"exercises":[{"name":"Squat"}]},{"day":1,"exercises":[]}]`, []int{1, 2}, false},
		{"keyed object", `{"3":[{"name":"Row"}],"1":[{"name":"Bench"}]}`, []int{1, 3}, false},
		{"string wrapped", `"[{\"day\":1,\"exercises\":[]}]"`, []int{1}, false},
		{"empty string", `""`, nil, false},
		{"bad key", `{"monday":[]}`, nil, true},
		{"number", `42`, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			days, err := domain.NormalizeWorkoutDays(json.RawMessage(tc.raw))
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidWorkoutDays) {
					t.Fatalf("expected ErrInvalidWorkoutDays, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(days) != len(tc.wantDays) {
				t.Fatalf("expected %d days, got %d", len(tc.wantDays), len(days))
			}
			for i, d := range days {
				if d.Day != tc.wantDays[i] {
					t.Errorf("day[%d] = %d; want %d", i, d.Day, tc.wantDays[i])
				}
				if d.Exercises == nil {
					t.Errorf("day[%d] has nil exercises", i)
				}
			}
		})
	}
}
