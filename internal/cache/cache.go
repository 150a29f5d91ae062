// Package cache contains the key-value stores with per-key expiry used to hold
// short lived values such as one time passcodes
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when a key is absent or has expired
var ErrMiss = errors.New("cache miss")

type Cache interface {
	// Set stores value under key, replacing any previous value and resetting its TTL
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
