package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fitcenter/internal/domain"
	"fitcenter/internal/logger"
)

// DefaultCacheTTL is the lifetime of read-through cache entries.
const DefaultCacheTTL = time.Hour

// Cache keys.
func dietLatestKey(userID int64) string   { return fmt.Sprintf("diet:latest:%d", userID) }
func measurementsKey(userID int64) string { return fmt.Sprintf("measurements:user:%d", userID) }
func profileKey(userID int64) string      { return fmt.Sprintf("profile:user:%d", userID) }
func progressKey(userID int64, year int) string {
	return fmt.Sprintf("progress:user:%d:%d", userID, year)
}
func workoutsKey(userID int64) string { return fmt.Sprintf("workouts:user:%d", userID) }
func exercisesMuscleKey(group string) string {
	return "exercises:muscle:" + strings.ToLower(group)
}

const (
	foodsKey     = "foods:all"
	exercisesKey = "exercises:all"
)

// readCache wraps an optional domain.Cache. Failures are logged and treated
// as misses so the store stays the source of truth.
type readCache struct {
	cache domain.Cache
	ttl   time.Duration
}

func newReadCache(c domain.Cache, ttl time.Duration) readCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return readCache{cache: c, ttl: ttl}
}

func (c readCache) invalidate(ctx context.Context, keys ...string) {
	if c.cache == nil || len(keys) == 0 {
		return
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		logger.Warn("cache delete %s: %v", strings.Join(keys, ","), err)
	}
}

// cached serves key from the cache, loading and storing it on a miss.
func cached[T any](ctx context.Context, c readCache, key string, load func(context.Context) (T, error)) (T, error) {
	if c.cache != nil {
		b, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache get %s: %v", key, err)
		case ok:
			var v T
			decodeErr := json.Unmarshal(b, &v)
			if decodeErr == nil {
				return v, nil
			}
			logger.Warn("cache decode %s: %v", key, decodeErr)
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if c.cache != nil {
		b, err := json.Marshal(v)
		if err != nil {
			logger.Warn("cache encode %s: %v", key, err)
			return v, nil
		}
		if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
			logger.Warn("cache set %s: %v", key, err)
		}
	}
	return v, nil
}
