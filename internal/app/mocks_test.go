package app_test

import (
	"context"
	"time"

	"fitcenter/internal/domain"
)

type mockMeasurementRepo struct {
	addFn     func(ctx context.Context, m domain.Measurement) (*domain.Measurement, error)
	latestFn  func(ctx context.Context, userID int64) (*domain.Measurement, error)
	listFn    func(ctx context.Context, userID int64) ([]domain.Measurement, error)
	betweenFn func(ctx context.Context, userID int64, from, to time.Time) ([]domain.Measurement, error)
}

func (m *mockMeasurementRepo) AddMeasurement(ctx context.Context, in domain.Measurement) (*domain.Measurement, error) {
	if m.addFn != nil {
		return m.addFn(ctx, in)
	}
	in.ID = 1
	return &in, nil
}

func (m *mockMeasurementRepo) LatestMeasurement(ctx context.Context, userID int64) (*domain.Measurement, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMeasurementRepo) ListMeasurements(ctx context.Context, userID int64) ([]domain.Measurement, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMeasurementRepo) ListMeasurementsBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.Measurement, error) {
	if m.betweenFn != nil {
		return m.betweenFn(ctx, userID, from, to)
	}
	return nil, nil
}

type mockProfileRepo struct {
	getFn    func(ctx context.Context, userID int64) (*domain.Profile, error)
	upsertFn func(ctx context.Context, p domain.Profile) (*domain.Profile, error)
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) UpsertProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return &p, nil
}

type mockCache struct {
	getFn    func(ctx context.Context, key string) ([]byte, bool, error)
	setFn    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	deleteFn func(ctx context.Context, keys ...string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, keys...)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
