// Package cache stores rendered charts and fetched employee sources.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one JSON envelope per entry under ~/.cache/trombinoscope/
//   - [RedisCache]: a shared Redis instance for server deployments
//
// Use [Open] to pick a backend from a [Config].
//
// # Keys
//
// A [Keyer] derives cache keys. Chart artifacts are keyed by a hash of the
// employee records plus every option that changes the output, so editing the
// directory or the layout invalidates them without explicit purges:
//
//	key := keyer.ArtifactKey(cache.Hash(recordsJSON), cache.ArtifactKeyOpts{Format: "svg", Style: "card"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); expired entries are misses.
// A zero ttl on Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)
	Close() error
}
