package cache

import (
	"context"
	"errors"
	"time"

	"github.com/IvanBrykalov/ttlru/policy"
)

// Configuration and per-call validation errors. All are deterministic and
// raised synchronously at the offending call; a cache miss is never an error.
var (
	// ErrInvalidCapacity is returned by New when Capacity is not positive.
	ErrInvalidCapacity = errors.New("cache: capacity must be > 0")
	// ErrInvalidInterval is returned by New when CleanupInterval is negative.
	ErrInvalidInterval = errors.New("cache: cleanup interval must be >= 0")
	// ErrInvalidTTL is returned when a TTL is negative, or missing under a
	// policy that requires a per-entry deadline (policy/ttl).
	ErrInvalidTTL = errors.New("cache: ttl must be > 0")
	// ErrInvalidKey is returned by Set/SetWithTTL for an empty key.
	ErrInvalidKey = errors.New("cache: key must be non-empty")
	// ErrClosed is returned by mutating operations after Close.
	ErrClosed = errors.New("cache: closed")
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
	ErrNoLoader = errors.New("cache: no Loader provided")
)

// DefaultCleanupInterval is applied when Options.CleanupInterval is zero.
const DefaultCleanupInterval = 30 * time.Second

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictPolicy — removed at the active policy's request on admission.
	EvictPolicy EvictReason = iota
	// EvictTTL — expired by TTL (lazily on access, or by a sweep).
	EvictTTL
	// EvictCapacity — removed to satisfy the capacity limit.
	EvictCapacity
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
	Cleanup(removed int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. The zero value of every optional
// field is safe; sane defaults are applied in New():
//   - nil Policy          => LRU
//   - nil Metrics         => NoopMetrics
//   - zero CleanupInterval => DefaultCleanupInterval
type Options[V any] struct {
	// Capacity is the entry count limit. Required, must be > 0.
	Capacity int

	// Policy is the pluggable eviction policy; nil => strict LRU.
	// policy/ttl switches the cache to per-entry deadlines with
	// nearest-expiry eviction.
	Policy policy.Policy[V]

	// DefaultTTL applies to Add/Set when a per-key TTL is not provided
	// (0 = no TTL under the LRU policy; the TTL policy requires one).
	DefaultTTL time.Duration

	// CleanupInterval is the standing period of the background sweep and
	// the opportunistic read-path sweep threshold under the LRU policy.
	// Zero applies DefaultCleanupInterval; negative is rejected.
	CleanupInterval time.Duration

	// DisableAutoCleanup turns the background janitor off. Expired entries
	// are then reclaimed only lazily on access or by explicit Cleanup calls.
	DisableAutoCleanup bool

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, key string) (V, error)

	// Observability
	// OnEvict is called on eviction under the cache lock; keep callbacks lightweight.
	OnEvict func(key string, v V, reason EvictReason)
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}
