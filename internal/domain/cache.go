package domain

import (
	"context"
	"time"
)

// Cache is a key/value blob store with per-entry expiry. A miss is reported
// as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
