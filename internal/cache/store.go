package cache

import (
	"context"
	"time"
)

// Store represents a shared cache interface used across the application.
// The paginated country listing and the rate limiter both run on top of it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}
