// Package cache stores derived artifacts of trapezoidal maps, such as the
// adjacency table or a rendered diagram, keyed by a hash of the input that
// produced them.
//
// Three backends share the [Cache] interface:
//
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [RedisCache] shares entries between server instances
//   - [NullCache] never stores anything
//
// Keys come from a [Keyer] so that callers never assemble them by hand:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(inputHash, "csv")
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    return data, nil
//	}
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long derived artifacts are kept. Artifacts are a pure
// function of their input, so the limit only bounds disk and memory use.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
