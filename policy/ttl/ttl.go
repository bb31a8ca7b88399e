// Package ttl implements the per-entry-TTL eviction policy.
//
// Every resident entry carries its own deadline and is tracked in a
// slot-indexed min-heap, so sweeps pop expired minima in O(k log n) without
// touching live entries, and a deadline change on update repositions the
// entry in O(log n).
//
// Policy choice: at capacity the victim is the entry closest to expiring,
// NOT the least recently used one — freshness takes precedence over recency.
// (Expired entries sort first under the same comparison, so they are always
// the preferred victims.) The recency list is still maintained, so hits and
// updates promote entries, but it does not drive eviction under this policy.
package ttl

import (
	"github.com/IvanBrykalov/ttlru/internal/expheap"
	"github.com/IvanBrykalov/ttlru/policy"
)

// ttl keeps the expiry heap as policy-private state, the same way a 2Q
// policy would keep its probation queues. Nodes satisfy expheap.Item
// structurally (Deadline/Slot/SetSlot), so the heap stores policy nodes
// directly with no wrapper allocations.
type ttl[V any] struct {
	h    policy.Hooks[V]
	heap expheap.Heap
}

type ttlPolicy[V any] struct{}

// New returns a Policy factory that constructs store-local per-entry-TTL
// instances. Entries admitted under this policy must have a deadline;
// the cache front end rejects Set calls without a positive TTL.
func New[V any]() policy.Policy[V] { return ttlPolicy[V]{} }

func (ttlPolicy[V]) New(h policy.Hooks[V]) policy.StorePolicy[V] {
	return &ttl[V]{h: h}
}

// OnAdd places the entry at MRU and starts tracking its deadline.
// Capacity enforcement is left to the store, which asks PeekExpiry
// for the victim.
func (p *ttl[V]) OnAdd(n policy.Node[V]) (evict policy.Node[V]) {
	p.h.PushFront(n)
	p.heap.Push(n)
	return nil
}

// OnGet promotes the entry to MRU. The deadline is unchanged, so the heap
// needs no adjustment.
func (p *ttl[V]) OnGet(n policy.Node[V]) { p.h.MoveToFront(n) }

// OnUpdate promotes the entry and repositions it in the heap: an update
// rewrites the deadline in place, which may violate the heap property at
// the entry's current slot.
func (p *ttl[V]) OnUpdate(n policy.Node[V]) {
	p.h.MoveToFront(n)
	p.heap.Fix(n)
}

// OnRemove stops tracking the entry. Uses the stored slot for O(log n)
// removal from an arbitrary heap position.
func (p *ttl[V]) OnRemove(n policy.Node[V]) { p.heap.Remove(n) }

// PeekExpiry returns the resident entry with the smallest deadline.
func (p *ttl[V]) PeekExpiry() policy.Node[V] {
	it := p.heap.Min()
	if it == nil {
		return nil
	}
	return it.(policy.Node[V])
}

// NextDeadline returns the smallest tracked deadline, or 0 if none.
func (p *ttl[V]) NextDeadline() int64 {
	it := p.heap.Min()
	if it == nil {
		return 0
	}
	return it.Deadline()
}

// Compile-time check: the store must see this policy as expiry-ordered.
var _ policy.Expirer[int] = (*ttl[int])(nil)
