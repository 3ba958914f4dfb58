// Package cache stores exchange rate lookups in memory or Redis
package cache

import (
	"context"
	"time"
)

// Cache is a TTL key-value store for JSON-encodable values
type Cache interface {
	// Get decodes the value at key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value at key for ttl
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
