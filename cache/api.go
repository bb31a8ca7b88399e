package cache

import (
	"context"
	"time"
)

// Cache is a bounded in-memory key/value cache interface.
// All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity is a map lookup plus constant-time list adjustments
// under the cache lock; policies with an expiry ordering add O(log n)
// heap maintenance on writes.
type Cache[V any] interface {
	// Add inserts k→v only if k is not present, using DefaultTTL (if any).
	// Returns false if the key already exists (no update is performed)
	// or if k is empty.
	Add(k string, v V) bool

	// Set inserts or updates k→v using DefaultTTL (if any), and promotes
	// the entry according to the active eviction policy.
	// Returns ErrInvalidKey for an empty key, ErrInvalidTTL when the
	// active policy requires a per-entry TTL and no DefaultTTL is set,
	// and ErrClosed after Close.
	Set(k string, v V) error

	// SetWithTTL inserts or updates k→v with a per-key TTL (relative
	// duration). Under the LRU policy a non-positive ttl disables
	// expiration for this entry; the TTL policy rejects it with
	// ErrInvalidTTL.
	SetWithTTL(k string, v V, ttl time.Duration) error

	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted according to the policy. A key whose
	// TTL has elapsed is removed and reported as a miss (lazy expiration).
	Get(k string) (V, bool)

	// Remove deletes k if present and returns true on success.
	// Removing an absent key is a no-op returning false.
	Remove(k string) bool

	// Cleanup synchronously removes every expired entry and returns the
	// count. The background janitor calls this on its own schedule; it is
	// exposed for hosts that drive cleanup themselves.
	Cleanup() int

	// Clear releases all entries and resets the cache to empty.
	// The background cleanup schedule is re-armed.
	Clear()

	// Len returns the number of resident entries, including entries that
	// have expired but have not been swept yet.
	Len() int

	// Stats returns a snapshot of hit/miss/eviction counters.
	Stats() CacheStats

	// Close stops the background janitor permanently and releases all
	// entries. Safe to call multiple times; operations after Close are
	// misses/no-ops (mutators return ErrClosed).
	Close() error

	// GetOrLoad returns the value for k, loading it via Options.Loader on
	// miss. Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k string) (V, error)
}

// CacheStats is a point-in-time snapshot of the cache's hot counters.
// Expired counts TTL-driven removals and is included in Evictions.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
	Expired   uint64
}
