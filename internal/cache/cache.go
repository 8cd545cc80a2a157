package cache

import (
	"context"
	"time"
)

// PageCache defines the interface for the list-page cache.
// Implementations may be absent entirely; callers treat a nil cache as
// "always miss".
type PageCache interface {
	// Get loads the cached value for key into dest, reporting whether
	// the key was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key for at most ttl
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Flush drops every cached list page
	Flush(ctx context.Context) error

	// Health checks if the cache is reachable
	Health(ctx context.Context) error

	// Close closes the cache connection
	Close() error
}
