/*
Package cache provides the simulation result cache.

PURPOSE:
  A full three-strategy simulation is cheap but not free, and dashboard
  sliders re-request it aggressively. Results are cached keyed by a hash
  of the exact inputs, so a cached entry can never serve stale data: any
  change to the debts or the extra budget changes the key. TTL handles
  garbage.

IMPLEMENTATIONS:
  Redis:  shared cache for real deployments.
  Memory: map-backed, for tests and redis-less development.
*/
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Repository is the cache contract consumed by the API layer.
type Repository interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Key builds a cache key from a namespace and the serialized inputs the
// result depends on. Inputs are hashed so keys stay short and contain no
// user data.
func Key(namespace string, inputs ...string) string {
	h := sha256.Sum256([]byte(strings.Join(inputs, "|")))
	return namespace + ":" + hex.EncodeToString(h[:16])
}
