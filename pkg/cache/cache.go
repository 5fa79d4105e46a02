// Package cache stores decomposition reports and rendered artifacts between
// runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance HTTP deployments
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys are produced by a [Keyer] from the hash of the canonical input plus
// every option that changes the output, so two requests share an entry only
// when they would produce identical reports:
//
//	k := cache.NewDefaultKeyer()
//	key := k.DecomposeKey(cache.Hash(input), cache.DecomposeKeyOpts{MaxIterations: 1000})
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached reports stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
