// Package singleflight coalesces concurrent loads for the same cache key.
package singleflight

import (
	"context"
	"sync"
)

// Group coalesces concurrent function calls for the same key so that the
// supplied fn is executed at most once. Other concurrent callers wait for
// the shared result.
//
// The first caller for a key becomes the leader and runs fn; followers wait
// on the call's done channel. Publishing (val, err) happens-before
// close(done), so reads after <-done observe the final values. Cancelling
// ctx in a follower unblocks only that follower; it does not cancel the
// leader's fn.
type Group[V any] struct {
	mu sync.Mutex
	m  map[string]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// Do runs fn once for the given key. Concurrent calls with the same key
// wait for the shared result. If ctx is cancelled in a follower, that
// follower returns ctx.Err() while the leader continues to run fn.
// If cancellation of the underlying work is required, thread ctx into fn.
func (g *Group[V]) Do(ctx context.Context, key string, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[string]*call[V])
	}
	if c, ok := g.m[key]; ok {
		done := c.done
		g.mu.Unlock()

		select {
		case <-done:
			return c.val, c.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	// We are the leader for this key.
	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Execute fn outside the lock.
	v, err := fn()

	c.val, c.err = v, err
	close(c.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return v, err
}
