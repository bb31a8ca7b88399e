package cache

// node is an intrusive doubly linked list element owned by a store.
// It stores the key/value alongside list links and metadata used by
// eviction policies and TTL accounting.
type node[V any] struct {
	key string
	val V

	// Intrusive list links: head is MRU, tail is LRU.
	prev *node[V]
	next *node[V]

	// Absolute expiration deadline in UnixNano.
	// Zero means "no TTL".
	exp int64

	// Current index in the policy's expiry heap; -1 when untracked.
	slot int
}

// Key returns the node key (part of policy.Node interface).
func (n *node[V]) Key() string { return n.key }

// Value returns a pointer to the stored value (part of policy.Node interface).
// NOTE: callers must only read/write through this pointer while holding the
// cache lock; otherwise data races may occur.
func (n *node[V]) Value() *V { return &n.val }

// Deadline returns the absolute expiry in UnixNano (0 = no TTL).
func (n *node[V]) Deadline() int64 { return n.exp }

// Slot returns the node's current expiry-heap index (-1 = untracked).
func (n *node[V]) Slot() int { return n.slot }

// SetSlot records the node's expiry-heap index.
func (n *node[V]) SetSlot(i int) { n.slot = i }

// pool is a per-store free list of recycled nodes. Delete/insert churn
// otherwise allocates a node per cycle; recycling keeps steady-state
// mutation allocation-free. Capped so a burst of deletes cannot pin more
// nodes than the cache may ever hold again.
type pool[V any] struct {
	free []*node[V]
	max  int
}

func newPool[V any](max int) *pool[V] {
	return &pool[V]{max: max}
}

// get returns a recycled node or allocates a fresh one.
// Recycled nodes are handed out fully reset (see put).
func (p *pool[V]) get(key string, val V, exp int64) *node[V] {
	if n := len(p.free); n > 0 {
		nd := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		nd.key, nd.val, nd.exp = key, val, exp
		return nd
	}
	return &node[V]{key: key, val: val, exp: exp, slot: -1}
}

// put resets the node and returns it to the free list (or drops it when the
// list is full). Every outbound reference is cleared before reuse: list
// links, heap slot, and the key/value themselves so the pool does not pin
// caller memory.
func (p *pool[V]) put(n *node[V]) {
	var zero V
	n.key = ""
	n.val = zero
	n.prev, n.next = nil, nil
	n.exp = 0
	n.slot = -1
	if len(p.free) < p.max {
		p.free = append(p.free, n)
	}
}
