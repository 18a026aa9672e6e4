// Package cache stores serialized extraction results for the HTTP layer.
//
// Values are kept as JSON so the in-memory and Redis backends behave the
// same: a cached value is always a copy, never shared with the caller.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is implemented by MemoryCache and RedisCache.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
