package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/ttlru/internal/singleflight"
	"github.com/IvanBrykalov/ttlru/policy"
	"github.com/IvanBrykalov/ttlru/policy/lru"
)

// cache is the synchronized front end over the single-owner store.
// All methods are safe for concurrent use by multiple goroutines: every
// operation, including janitor runs, is serialized behind mu.
type cache[V any] struct {
	mu     sync.Mutex
	s      *store[V]
	closed atomic.Bool

	opt Options[V]

	// requireTTL is set for policies with an expiry ordering (policy/ttl):
	// every entry then needs a positive deadline.
	requireTTL bool

	jan *janitor

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[V]
}

// New constructs a cache with the provided Options, validating them eagerly.
// Defaults:
//   - nil Metrics          -> NoopMetrics
//   - nil Policy           -> LRU
//   - zero CleanupInterval -> DefaultCleanupInterval
//
// Close must be called to release the background janitor (unless
// DisableAutoCleanup is set, in which case Close is still safe to call).
func New[V any](opt Options[V]) (Cache[V], error) {
	if opt.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if opt.DefaultTTL < 0 {
		return nil, ErrInvalidTTL
	}
	if opt.CleanupInterval < 0 {
		return nil, ErrInvalidInterval
	}
	if opt.CleanupInterval == 0 {
		opt.CleanupInterval = DefaultCleanupInterval
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[V]()
	}

	c := &cache[V]{opt: opt}
	c.s = newStore(opt)
	_, c.requireTTL = c.s.pol.(policy.Expirer[V])

	if !opt.DisableAutoCleanup {
		c.jan = newJanitor(opt.CleanupInterval, c.runCleanup)
	}
	return c, nil
}

// ---- Cache[V] implementation ----

// Add inserts k→v only if absent, using DefaultTTL if set.
// Returns false on duplicate or empty key.
func (c *cache[V]) Add(k string, v V) bool {
	if k == "" || c.closed.Load() {
		return false
	}
	exp, err := c.defaultDeadline()
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := c.s.add(k, v, exp, c.now())
	if ok {
		c.maybeWake(exp)
	}
	return ok
}

// Set inserts or updates k→v, using DefaultTTL if set,
// and promotes the entry according to the active policy.
func (c *cache[V]) Set(k string, v V) error {
	exp, err := c.defaultDeadline()
	if err != nil {
		return err
	}
	return c.setDeadline(k, v, exp)
}

// SetWithTTL inserts or updates k→v with a per-key TTL (relative duration).
func (c *cache[V]) SetWithTTL(k string, v V, ttl time.Duration) error {
	if ttl <= 0 && c.requireTTL {
		return ErrInvalidTTL
	}
	if ttl < 0 {
		return ErrInvalidTTL
	}
	return c.setDeadline(k, v, c.deadline(ttl))
}

func (c *cache[V]) setDeadline(k string, v V, exp int64) error {
	if k == "" {
		return ErrInvalidKey
	}
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.set(k, v, exp, c.now())
	c.maybeWake(exp)
	return nil
}

// Get returns the value for k and a presence flag.
// On hit, the entry is promoted according to the active policy.
func (c *cache[V]) Get(k string) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.get(k, c.now())
}

// Remove deletes k if present and returns true on success.
func (c *cache[V]) Remove(k string) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.remove(k)
}

// Cleanup removes every expired entry at the current clock reading and
// returns the count.
func (c *cache[V]) Cleanup() int {
	if c.closed.Load() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.cleanup(c.now())
}

// Clear releases all entries and re-arms the cleanup schedule.
func (c *cache[V]) Clear() {
	if c.closed.Load() {
		return
	}
	c.mu.Lock()
	c.s.clear(c.now())
	c.mu.Unlock()
	if c.jan != nil {
		c.jan.schedule(c.opt.CleanupInterval)
	}
}

// Len returns the number of resident entries.
func (c *cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.len
}

// Stats returns a snapshot of the hot counters without taking the cache lock.
func (c *cache[V]) Stats() CacheStats {
	return CacheStats{
		Hits:      c.s.hits.Load(),
		Misses:    c.s.misses.Load(),
		Evictions: c.s.evicts.Load(),
		Expired:   c.s.expired.Load(),
	}
}

// Close marks the cache as closed, permanently cancels the janitor, and
// releases all entries. After Close returns the cleanup task cannot fire
// again. Safe to call multiple times.
func (c *cache[V]) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.jan != nil {
		c.jan.stop()
	}
	c.mu.Lock()
	c.s.clear(c.now())
	c.mu.Unlock()
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
// If no Loader is configured, returns ErrNoLoader.
func (c *cache[V]) GetOrLoad(ctx context.Context, k string) (V, error) {
	// fast path
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	// singleflight: exactly one real load for the key
	return c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, k)
		if err == nil {
			err = c.Set(k, v)
		}
		return v, err
	})
}

// ---- helpers ----

// runCleanup is invoked by the janitor. It sweeps expired entries and
// returns the delay until the next fire: the standing interval, shortened
// to the next tracked deadline when the policy knows one.
func (c *cache[V]) runCleanup() time.Duration {
	if c.closed.Load() {
		return c.opt.CleanupInterval
	}
	c.mu.Lock()
	now := c.now()
	c.s.cleanup(now)
	next := c.s.nextDeadline()
	c.mu.Unlock()

	d := c.opt.CleanupInterval
	if next > 0 {
		if until := time.Duration(next - now); until < d {
			d = until
		}
	}
	return d
}

// maybeWake asks the janitor to fire earlier when a freshly written deadline
// precedes its scheduled run. Only meaningful for expiry-ordered policies.
func (c *cache[V]) maybeWake(exp int64) {
	if c.jan == nil || !c.requireTTL || exp == 0 {
		return
	}
	c.jan.wakeBefore(time.Unix(0, exp))
}

// defaultDeadline returns an absolute deadline based on DefaultTTL.
// Policies that require per-entry deadlines reject a missing DefaultTTL.
func (c *cache[V]) defaultDeadline() (int64, error) {
	if c.opt.DefaultTTL <= 0 {
		if c.requireTTL {
			return 0, ErrInvalidTTL
		}
		return 0, nil
	}
	return c.deadline(c.opt.DefaultTTL), nil
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (c *cache[V]) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return c.now() + int64(ttl)
}

// now reads the configured clock (wall clock by default).
func (c *cache[V]) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}
