// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a plain byte store with per-entry TTLs. Three backends are
// provided:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as files under a directory, for the CLI
//   - [RedisCache] shares entries between API server instances
//
// Keys are produced by a [Keyer] so that the key layout lives in one place.
// [ScopedKeyer] adds a prefix for separate namespaces on a shared backend.
package cache

import (
	"context"
	"time"
)

// TTLs for the two kinds of cached data.
const (
	// TTLLayout is how long a positioned graph stays cached. Layouts are
	// deterministic for a given graph and options, so this is generous.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered DOT/SVG output stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key-value byte store with expiration.
//
// Get reports a miss with hit == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
