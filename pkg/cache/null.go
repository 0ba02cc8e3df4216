package cache

import (
	"context"
	"time"
)

// NullCache stands in for a cache when caching is switched off, as with
// --no-cache or a runner built without one.
//
// It never stores anything. Callers that check [Enabled] skip the cache
// stage entirely, so a disabled cache hashes no graphs and reports no hits,
// misses, or writes to the observability hooks.
type NullCache struct{}

// NewNullCache returns a disabled cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Enabled reports whether c can hold entries. It is false for nil and for
// a [NullCache].
func Enabled(c Cache) bool {
	if c == nil {
		return false
	}
	_, off := c.(*NullCache)
	return !off
}

// Get reports a miss.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, string) error { return nil }

// Clear has nothing to drop.
func (c *NullCache) Clear(context.Context) error { return nil }

func (c *NullCache) Close() error { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
