package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
// Key and Value give read access to the stored pair; the Value pointer
// allows in-place updates without re-linking the intrusive node.
// Deadline/Slot expose the entry's expiry metadata so a policy can keep
// its own ordering structure over deadlines without side lookups.
type Node[V any] interface {
	Key() string
	Value() *V

	// Deadline is the absolute expiry in UnixNano (0 = no TTL).
	Deadline() int64

	// Slot is the entry's current index inside a policy-owned ordering
	// structure, or -1 when untracked. The structure writes positions
	// back via SetSlot on every move.
	Slot() int
	SetSlot(int)
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the store's intrusive MRU/LRU list. Implementations are provided by the store.
//
// Concurrency: all hook calls happen under the cache lock.
// Important: hooks manage only the list; the store owns the key->node map.
type Hooks[V any] interface {
	// MoveToFront promotes the node to MRU.
	MoveToFront(Node[V])
	// PushFront inserts the node at MRU (used on admission).
	PushFront(Node[V])
	// Remove detaches the node from the list (map bookkeeping is done by the store).
	Remove(Node[V])
	// Back returns the current LRU node (or nil if empty).
	Back() Node[V]
	// Len returns the number of resident nodes.
	Len() int
}

// StorePolicy is a per-store eviction policy instance bound to store hooks.
// All methods are invoked under the cache lock.
//
// Semantics:
//   - OnAdd may return an eviction candidate. The store will evict that
//     node and subsequently call OnRemove for it.
//   - OnGet/OnUpdate typically promote the node (e.g., move to MRU);
//     OnUpdate must also reposition the node in any policy-owned ordering
//     when its deadline changed.
//   - OnRemove is a notification to drop policy-internal state for the node.
//     The store performs the actual deletion.
type StorePolicy[V any] interface {
	OnAdd(Node[V]) (evict Node[V])
	OnGet(Node[V])
	OnUpdate(Node[V])
	OnRemove(Node[V])
}

// Expirer is implemented by policies that maintain an ordering over entry
// deadlines. The store uses it three ways: targeted expiry sweeps
// (pop expired minima instead of scanning the index), victim selection at
// capacity (the nearest-expiry entry), and adaptive cleanup rescheduling.
// Policies without an expiry ordering simply do not implement it; the store
// then falls back to full-scan sweeps and LRU-tail eviction.
type Expirer[V any] interface {
	// PeekExpiry returns the tracked node with the smallest deadline,
	// or nil if nothing is tracked.
	PeekExpiry() Node[V]

	// NextDeadline returns the smallest tracked deadline (0 = none).
	NextDeadline() int64
}

// Policy is a factory that creates store-local policy instances
// bound to a particular store's hooks.
type Policy[V any] interface {
	New(Hooks[V]) StorePolicy[V]
}
