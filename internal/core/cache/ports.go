package cache

import (
	"context"
	"time"
)

// Cache is the key-value store port behind carts and the health check.
// The deployed implementation is Redis; tests run against miniredis.
type Cache interface {
	// Get returns the value stored at key, or an error when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value with a TTL. A zero TTL keeps the key forever.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
