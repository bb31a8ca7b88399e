// Package expheap implements a binary min-heap over expiry deadlines with
// slot tracking: every item stores its own current array index, which makes
// removal from an arbitrary position O(log n) instead of O(n). That is what
// keeps per-entry TTLs updatable — a deadline change repositions the item
// without rebuilding the heap.
//
// container/heap is deliberately not used: it hides element indices behind
// its Interface, and the write-back of positions is the whole point here.
package expheap

// Item is an element tracked by the heap. SetSlot is called on every move
// with the item's new array index; implementations must store it and return
// it unchanged from Slot. A Slot of -1 means "not in the heap".
type Item interface {
	Deadline() int64
	Slot() int
	SetSlot(int)
}

// Heap is a slice-backed min-heap ordered by Item.Deadline.
// Items with equal deadlines have no guaranteed relative order.
// The zero value is ready to use. Not safe for concurrent use.
type Heap struct {
	items []Item
}

// Len returns the number of tracked items.
func (h *Heap) Len() int { return len(h.items) }

// Min returns the item with the smallest deadline without removing it,
// or nil if the heap is empty.
func (h *Heap) Min() Item {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// Push inserts it and sifts it up to its position. O(log n).
func (h *Heap) Push(it Item) {
	h.items = append(h.items, it)
	it.SetSlot(len(h.items) - 1)
	h.up(len(h.items) - 1)
}

// PopMin removes and returns the root, or nil if empty. The last element
// replaces the root and is sifted down; the single-element case needs no sift.
func (h *Heap) PopMin() Item {
	if len(h.items) == 0 {
		return nil
	}
	min := h.items[0]
	h.removeAt(0)
	return min
}

// Remove detaches it from wherever it sits, using its stored slot.
// No-op if the item is not currently tracked. O(log n).
func (h *Heap) Remove(it Item) {
	i := it.Slot()
	if i < 0 || i >= len(h.items) || h.items[i] != it {
		return
	}
	h.removeAt(i)
}

// Fix restores the heap property after the item's deadline changed in place.
// Equivalent to Remove followed by Push, but cheaper. O(log n).
func (h *Heap) Fix(it Item) {
	i := it.Slot()
	if i < 0 || i >= len(h.items) || h.items[i] != it {
		return
	}
	// Exactly one direction has effect.
	if !h.down(i) {
		h.up(i)
	}
}

// Reset drops all items, clearing their slots so they can be safely reused.
func (h *Heap) Reset() {
	for _, it := range h.items {
		it.SetSlot(-1)
	}
	h.items = h.items[:0]
}

// removeAt deletes the item at index i by swapping in the last element and
// sifting the displaced element both ways.
func (h *Heap) removeAt(i int) {
	last := len(h.items) - 1
	it := h.items[i]
	if i != last {
		h.swap(i, last)
	}
	h.items[last] = nil
	h.items = h.items[:last]
	it.SetSlot(-1)
	if i < last {
		if !h.down(i) {
			h.up(i)
		}
	}
}

// up sifts the item at i toward the root while it precedes its parent.
func (h *Heap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Deadline() >= h.items[parent].Deadline() {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

// down sifts the item at i toward the leaves; reports whether it moved.
func (h *Heap) down(i int) bool {
	moved := false
	n := len(h.items)
	for {
		left := 2*i + 1
		if left >= n {
			return moved
		}
		min := left
		if right := left + 1; right < n && h.items[right].Deadline() < h.items[left].Deadline() {
			min = right
		}
		if h.items[min].Deadline() >= h.items[i].Deadline() {
			return moved
		}
		h.swap(i, min)
		i = min
		moved = true
	}
}

func (h *Heap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].SetSlot(i)
	h.items[j].SetSlot(j)
}
