// Package cache provides the caching capability injected into thunks as an
// extra argument: an in-process L1 backed by ristretto, a Redis L2 backed by
// go-redis, and a tiered combination of both.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotStored is returned by L1.Set when ristretto refuses the write:
	// the cache is closed, the TTL is negative or the set buffer is full.
	ErrNotStored = errors.New("cache: value not stored")

	// ErrLoaderPanicked is returned to callers waiting on a load whose
	// loader panicked. The panic itself propagates to the loading caller.
	ErrLoaderPanicked = errors.New("cache: loader panicked")
)

// ExtraKey is the extras key under which a configured cache is handed to
// every thunk.
const ExtraKey = "cache"

// Cache is the caching contract exposed to thunks.
type Cache interface {
	// Get retrieves a value by key. The boolean indicates a cache hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given TTL. A zero TTL means the
	// entry has no automatic expiration.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetOrSet returns the cached value for key. On a cache miss it calls
	// loader exactly once, stores the result, and returns it.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error)
}

// FromExtras returns the cache a thunk received in its extras.
func FromExtras(extras map[string]any) (Cache, bool) {
	c, ok := extras[ExtraKey].(Cache)
	return c, ok
}

var (
	_ Cache = (*L1)(nil)
	_ Cache = (*L2)(nil)
	_ Cache = (*Tiered)(nil)
)
