// Package cache provides a bounded, generic, in-memory key/value cache with
// pluggable eviction policies, TTL-based reclamation, optional singleflight
// loading, and lightweight metrics hooks.
//
// Design
//
//   - Storage: one map[string]*node for lookups and an intrusive MRU↔LRU
//     doubly linked list for recency ordering. Entries removed by eviction or
//     deletion are recycled through a per-instance free list, so steady-state
//     churn does not allocate.
//
//   - Policies: the eviction policy is pluggable via the policy package and
//     selects one of two family members sharing the same index and recency
//     list. policy/lru is strict LRU with a shared TTL: expiry is checked
//     lazily on access and sweeps scan the whole index. policy/ttl tracks a
//     per-entry deadline in a slot-indexed min-heap: sweeps pop expired
//     minima in O(k log n), and at capacity the victim is the entry closest
//     to expiring rather than the least recently used one.
//
//   - TTL: deadlines are absolute UnixNano values. Expiration is lazy on
//     read — a key whose TTL elapsed is removed on access and reported as a
//     miss — and proactive via Cleanup, driven either by the built-in
//     janitor or by the host calling Cleanup itself.
//
//   - Janitor: unless disabled, a background task sweeps on a standing
//     interval, shortened adaptively when the policy knows the next
//     deadline. Close cancels it permanently and idempotently.
//
//   - Concurrency: one mutex serializes all operations on an instance; the
//     underlying store assumes exclusive access during each call and holds
//     no lock of its own. No operation blocks on I/O except GetOrLoad's
//     loader, which runs outside the store.
//
//   - Errors: configuration and key/TTL validation fail fast with sentinel
//     errors (ErrInvalidCapacity, ErrInvalidKey, ...). Misses, expiry, and
//     eviction are ordinary return values, never errors.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size/Cleanup signals.
//     By default NoopMetrics is used; plug the Prometheus adapter from
//     metrics/prom to export them. Options.OnEvict is called per eviction
//     with the reason (EvictPolicy, EvictTTL, EvictCapacity).
//
// Basic usage
//
//	// Strict LRU, entries expire 5 minutes after their last write.
//	c, err := cache.New[[]byte](cache.Options[[]byte]{
//	    Capacity:   10_000,
//	    DefaultTTL: 5 * time.Minute,
//	})
//	if err != nil {
//	    // invalid configuration
//	}
//	defer c.Close()
//
//	_ = c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Remove("a")
//
// Per-entry TTL with nearest-expiry eviction
//
//	c, _ := cache.New[string](cache.Options[string]{
//	    Capacity: 1024,
//	    Policy:   ttl.New[string](),
//	})
//	defer c.Close()
//	_ = c.SetWithTTL("session", "v", 200*time.Millisecond)
//	time.Sleep(300 * time.Millisecond)
//	_, ok := c.Get("session") // ok == false (expired)
//
// With GetOrLoad (singleflight)
//
//	c, _ := cache.New[string](cache.Options[string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        // e.g. fetch from DB
//	        return "v:" + k, nil
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "ttlru", "demo", nil) // implements cache.Metrics
//	c, _ := cache.New[[]byte](cache.Options[[]byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
//
// See options.go for all available Options fields and package policy for the
// Policy/Hooks interfaces used to implement custom strategies.
package cache
