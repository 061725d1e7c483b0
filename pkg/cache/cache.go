// Package cache provides TTL-based byte caching with pluggable backends.
//
// Three backends are available:
//   - NullCache: no-op, for testing or when caching is disabled
//   - DiskCache: on-disk store for CLI usage, survives restarts
//   - RedisCache: Redis-backed store for multi-instance deployments
//
// All backends share the same interface. A zero TTL means entries never
// expire.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all caching backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
