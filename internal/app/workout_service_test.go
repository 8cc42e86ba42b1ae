package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"fitcenter/internal/adapter/memory"
	"fitcenter/internal/app"
	"fitcenter/internal/domain"
)

func TestWorkoutUpsert(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	member, _ := db.Create(ctx, domain.User{Username: "m@example.com"})
	trainer, _ := db.Create(ctx, domain.User{Username: "t@example.com", Role: domain.RoleTrainer})
	svc := app.NewWorkoutService(db, db, memory.NewCache(), 0)

	tests := []struct {
		name    string
		caller  *domain.User
		userID  int64
		raw     string
		wantErr error
		days    int
	}{
		{"member forbidden", member, member.ID, `[]`, app.ErrForbidden, 0},
		{"bad shape", trainer, member.ID, `42`, app.ErrValidation, 0},
		{"day out of range", trainer, member.ID, `[{"day":9,"exercises":[]}]`, app.ErrValidation, 0},
		{"unknown member", trainer, 999, `[]`, app.ErrNotFound, 0},
		{"create from keyed object", trainer, member.ID, `{"2":[{"name":"Row"}],"1":[{"name":"Squat"}]}`, nil, 2},
		{"replace from string", trainer, member.ID, `"[{\"day\":1,\"exercises\":[{\"name\":\"Deadlift\"}]}]"`, nil, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := svc.Upsert(ctx, tc.caller, tc.userID, json.RawMessage(tc.raw))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(plan.Days) != tc.days {
				t.Errorf("expected %d days, got %d", tc.days, len(plan.Days))
			}
		})
	}

	plans, err := svc.ListMine(ctx, member.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected one plan per trainer, got %d", len(plans))
	}
	if plans[0].Days[0].Exercises[0].Name != "Deadlift" {
		t.Errorf("expected replaced days, got %+v", plans[0].Days)
	}

	if _, err := svc.UserPlan(ctx, member, trainer.ID); !errors.Is(err, app.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	plan, err := svc.UserPlan(ctx, trainer, member.ID)
	if err != nil || plan == nil {
		t.Fatalf("UserPlan: %+v, %v", plan, err)
	}
}
