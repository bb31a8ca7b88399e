// Package lru implements the strict LRU eviction policy.
//
// It maintains no expiry ordering of its own: entries typically share the
// cache's default TTL, expiry is checked lazily on access, and periodic
// sweeps fall back to a full scan of the index. At capacity the store evicts
// the recency-list tail.
package lru

import "github.com/IvanBrykalov/ttlru/policy"

// lru is a classic "move-to-front" Least-Recently-Used policy.
// It delegates list manipulation to policy.Hooks provided by the store.
type lru[V any] struct {
	h policy.Hooks[V]
}

type lruPolicy[V any] struct{}

// New returns a Policy factory that constructs store-local LRU instances.
func New[V any]() policy.Policy[V] { return lruPolicy[V]{} }

// New implements policy.Policy by binding store hooks and returning
// a store-local policy instance.
func (lruPolicy[V]) New(h policy.Hooks[V]) policy.StorePolicy[V] {
	return &lru[V]{h: h}
}

// OnAdd places the new entry at MRU. LRU itself doesn't choose evictions;
// the store enforces the capacity limit against the list tail.
func (p *lru[V]) OnAdd(n policy.Node[V]) (evict policy.Node[V]) {
	p.h.PushFront(n)
	return nil
}

// OnGet promotes the entry to MRU.
func (p *lru[V]) OnGet(n policy.Node[V]) { p.h.MoveToFront(n) }

// OnUpdate promotes the entry to MRU (updates are treated as recent use).
func (p *lru[V]) OnUpdate(n policy.Node[V]) { p.h.MoveToFront(n) }

// OnRemove is a no-op for pure LRU (nothing to clean up in policy state).
func (p *lru[V]) OnRemove(_ policy.Node[V]) {}
