package cache

import (
	"github.com/IvanBrykalov/ttlru/internal/util"
	"github.com/IvanBrykalov/ttlru/policy"
)

// store is the single-owner cache engine: a key->node map, an intrusive
// doubly linked list (head=MRU, tail=LRU), and the active eviction policy.
// It performs no synchronization of its own; the cache front end serializes
// every call behind one mutex.
type store[V any] struct {
	m    map[string]*node[V]
	head *node[V] // MRU
	tail *node[V] // LRU
	len  int      // number of resident entries
	cap  int      // entry capacity

	pool *pool[V]

	// Policy and options (policy uses hooks to manipulate the list).
	pol policy.StorePolicy[V]
	// exp is pol downcast to Expirer, nil when the policy keeps no
	// expiry ordering (then sweeps scan the index and eviction takes
	// the list tail).
	exp policy.Expirer[V]
	opt Options[V]

	// lastSweep is the UnixNano stamp of the last full-scan sweep,
	// used by the opportunistic read-path sweep (non-expirer policies).
	lastSweep int64

	// ---- hot counters (padded; read lock-free by Stats) ----
	hits    util.PaddedAtomicInt64
	misses  util.PaddedAtomicInt64
	evicts  util.PaddedAtomicUint64
	expired util.PaddedAtomicUint64
}

// newStore initializes a store with capacity, policy factory, and options.
func newStore[V any](opt Options[V]) *store[V] {
	s := &store[V]{
		m:    make(map[string]*node[V], opt.Capacity),
		cap:  opt.Capacity,
		pool: newPool[V](opt.Capacity),
		opt:  opt,
	}

	// Wrap this store with policy hooks.
	h := storeHooks[V]{s: s}
	s.pol = opt.Policy.New(h)
	s.exp, _ = s.pol.(policy.Expirer[V])
	return s
}

// get returns the value and promotes the entry according to the policy.
// TTL: an entry whose deadline has passed is evicted and reported as a miss;
// an expired-but-not-yet-swept entry is indistinguishable from a missing one.
func (s *store[V]) get(k string, now int64) (V, bool) {
	// Without an expiry ordering, amortize cleanup cost into the read path:
	// a full sweep once per cleanup interval.
	if s.exp == nil && s.opt.CleanupInterval > 0 && now-s.lastSweep >= int64(s.opt.CleanupInterval) {
		s.cleanup(now)
	}

	n, ok := s.m[k]
	if !ok {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	if expiredAt(n, now) {
		s.evictNode(n, EvictTTL)
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}

	s.pol.OnGet(n)
	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return n.val, true
}

// set inserts or updates an entry. exp is an absolute UnixNano deadline
// (0 = no TTL). An update changes value and deadline in place and promotes;
// the size does not change. A new key first reclaims expired entries (when
// the policy tracks deadlines), then evicts exactly one victim if the cache
// is full, then admits the entry through the policy.
func (s *store[V]) set(k string, v V, exp int64, now int64) {
	if n, ok := s.m[k]; ok {
		n.val = v
		n.exp = exp
		s.pol.OnUpdate(n)
		s.opt.Metrics.Size(s.len)
		return
	}
	s.insert(k, v, exp, now)
}

// add inserts only if the key is absent. Returns false on duplicate.
func (s *store[V]) add(k string, v V, exp int64, now int64) bool {
	if _, ok := s.m[k]; ok {
		return false
	}
	s.insert(k, v, exp, now)
	return true
}

func (s *store[V]) insert(k string, v V, exp int64, now int64) {
	if s.exp != nil {
		// Expired entries are zero-value; drop them before counting capacity.
		s.cleanup(now)
	}
	if s.len >= s.cap {
		s.evictOne(now)
	}

	n := s.pool.get(k, v, exp)
	s.m[k] = n
	if ev := s.pol.OnAdd(n); ev != nil {
		s.evictNode(ev.(*node[V]), EvictPolicy)
	}
	s.opt.Metrics.Size(s.len)
}

// remove deletes an entry by key. Returns true if the entry existed.
// Explicit removal is not counted as an eviction.
func (s *store[V]) remove(k string) bool {
	n, ok := s.m[k]
	if !ok {
		return false
	}
	s.pol.OnRemove(n)
	s.unlink(n)
	delete(s.m, k)
	s.pool.put(n)
	s.opt.Metrics.Size(s.len)
	return true
}

// cleanup removes every entry whose deadline is <= now and returns the count.
// With an expiry ordering it pops expired minima and stops at the first live
// one, O(k log n) for k expired entries; otherwise it scans the whole index,
// the necessary cost of not maintaining a secondary ordering.
func (s *store[V]) cleanup(now int64) int {
	removed := 0
	if s.exp != nil {
		for {
			m := s.exp.PeekExpiry()
			if m == nil || !expiredAt(m.(*node[V]), now) {
				break
			}
			s.evictNode(m.(*node[V]), EvictTTL)
			removed++
		}
	} else {
		for _, n := range s.m {
			if expiredAt(n, now) {
				s.evictNode(n, EvictTTL)
				removed++
			}
		}
		s.lastSweep = now
	}
	if removed > 0 {
		s.opt.Metrics.Size(s.len)
	}
	s.opt.Metrics.Cleanup(removed)
	return removed
}

// clear releases every entry to the pool and resets all structures.
func (s *store[V]) clear(now int64) {
	for n := s.head; n != nil; {
		next := n.next
		s.pol.OnRemove(n)
		n.prev, n.next = nil, nil
		delete(s.m, n.key)
		s.pool.put(n)
		n = next
	}
	s.head, s.tail = nil, nil
	s.len = 0
	s.lastSweep = now
	s.opt.Metrics.Size(0)
}

// nextDeadline returns the earliest tracked deadline (0 = none or no
// expiry-ordered policy). Used for adaptive janitor rescheduling.
func (s *store[V]) nextDeadline() int64 {
	if s.exp == nil {
		return 0
	}
	return s.exp.NextDeadline()
}

// -------------------- internals --------------------

// expiredAt reports whether n's deadline has passed at now.
// Entries expire exactly at their deadline.
func expiredAt[V any](n *node[V], now int64) bool {
	return n.exp != 0 && now >= n.exp
}

// evictOne removes a single victim to make room. With an expiry ordering the
// victim is the nearest-expiry entry (expired ones sort first and are evicted
// under EvictTTL); otherwise it is the recency-list tail.
func (s *store[V]) evictOne(now int64) {
	if s.exp != nil {
		if m := s.exp.PeekExpiry(); m != nil {
			n := m.(*node[V])
			reason := EvictCapacity
			if expiredAt(n, now) {
				reason = EvictTTL
			}
			s.evictNode(n, reason)
			return
		}
	}
	if t := s.tail; t != nil {
		s.evictNode(t, EvictCapacity)
	}
}

// insertFront inserts n at MRU in O(1).
func (s *store[V]) insertFront(n *node[V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.len++
}

// moveToFront promotes n to MRU in O(1).
func (s *store[V]) moveToFront(n *node[V]) {
	if n == s.head {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// unlink removes n from the list and updates counters in O(1).
// Safe to call on an already detached node (idempotent no-op).
func (s *store[V]) unlink(n *node[V]) {
	if n.prev == nil && n.next == nil && s.head != n {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.len--
}

// evictNode removes the node, updates metrics/counters, calls OnEvict,
// and recycles the node.
func (s *store[V]) evictNode(n *node[V], reason EvictReason) {
	s.pol.OnRemove(n)
	s.unlink(n)
	delete(s.m, n.key)
	s.evicts.Add(1)
	if reason == EvictTTL {
		s.expired.Add(1)
	}
	s.opt.Metrics.Evict(reason)
	if cb := s.opt.OnEvict; cb != nil {
		// Called under the cache lock; pooling must wait until after.
		cb(n.key, n.val, reason)
	}
	s.pool.put(n)
}

// -------------------- policy hooks --------------------

// storeHooks adapts the store's list operations to policy.Hooks.
type storeHooks[V any] struct{ s *store[V] }

func (h storeHooks[V]) MoveToFront(x policy.Node[V]) { h.s.moveToFront(x.(*node[V])) }
func (h storeHooks[V]) PushFront(x policy.Node[V])   { h.s.insertFront(x.(*node[V])) }
func (h storeHooks[V]) Remove(x policy.Node[V]) {
	// Policies call Remove while the cache lock is held.
	// Map bookkeeping is performed by the store itself.
	h.s.unlink(x.(*node[V]))
}
func (h storeHooks[V]) Back() policy.Node[V] {
	if h.s.tail == nil {
		return nil
	}
	return h.s.tail
}
func (h storeHooks[V]) Len() int { return h.s.len }
