package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports that a key is absent or expired. A miss is a normal
// state, never a failure.
var ErrMiss = errors.New("cache miss")

// Cache is a best-effort key/value store with per-key expiry. The whole
// layer is optional: components take a nil Cache to run in permanent
// store-only mode, and callers must absorb any non-miss error as if it
// were a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}
