package domain_test

import (
	"math"
	"testing"

	"fitcenter/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestConvertWeight(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		want     float64
	}{
		{"kg to lb", 100.0, "kg", "lb", 220.46226218},
		{"lb to kg", 220.46226218, "lb", "kg", 100.0},
		{"same unit kg", 80.0, "kg", "kg", 80.0},
		{"unknown units", 50.0, "st", "kg", 50.0},
		{"zero value", 0, "kg", "lb", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ConvertWeight(tc.value, tc.from, tc.to)
			if !almostEqual(got, tc.want, 0.001) {
				t.Errorf("ConvertWeight(%v, %q, %q) = %v; want %v",
					tc.value, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestWeightKg(t *testing.T) {
	if got := domain.WeightKg(70, ""); got != 70 {
		t.Errorf("empty unit: got %v", got)
	}
	if got := domain.WeightKg(154.32358, "lb"); !almostEqual(got, 70, 0.001) {
		t.Errorf("lb: got %v", got)
	}
}

func TestRolePrivileges(t *testing.T) {
	tests := []struct {
		role       domain.Role
		privileged bool
		admin      bool
	}{
		{domain.RoleMember, false, false},
		{domain.RoleTrainer, true, false},
		{domain.RoleAdministrator, true, true},
		{domain.RoleSuperadmin, true, true},
	}
	for _, tc := range tests {
		if got := tc.role.Privileged(); got != tc.privileged {
			t.Errorf("%s.Privileged() = %v", tc.role, got)
		}
		if got := tc.role.Admin(); got != tc.admin {
			t.Errorf("%s.Admin() = %v", tc.role, got)
		}
	}
	if domain.Role("coach").Valid() {
		t.Error("unknown role should be invalid")
	}
}
