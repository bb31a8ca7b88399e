package expheap

import (
	"math/rand"
	"sort"
	"testing"
)

type item struct {
	deadline int64
	slot     int
}

func (it *item) Deadline() int64 { return it.deadline }
func (it *item) Slot() int       { return it.slot }
func (it *item) SetSlot(i int)   { it.slot = i }

func newItem(d int64) *item { return &item{deadline: d, slot: -1} }

// checkInvariants verifies the heap property and that every item's stored
// slot matches its actual position.
func checkInvariants(t *testing.T, h *Heap) {
	t.Helper()
	for i, it := range h.items {
		if it.Slot() != i {
			t.Fatalf("item at %d stores slot %d", i, it.Slot())
		}
		if i > 0 {
			parent := (i - 1) / 2
			if h.items[i].Deadline() < h.items[parent].Deadline() {
				t.Fatalf("heap violated at %d: %d < parent %d",
					i, h.items[i].Deadline(), h.items[parent].Deadline())
			}
		}
	}
}

// Push then PopMin must drain in non-decreasing deadline order.
func TestHeap_PushPopOrdered(t *testing.T) {
	t.Parallel()

	var h Heap
	for _, d := range []int64{50, 10, 40, 20, 30, 10} {
		h.Push(newItem(d))
		checkInvariants(t, &h)
	}

	var got []int64
	for {
		it := h.PopMin()
		if it == nil {
			break
		}
		got = append(got, it.Deadline())
		checkInvariants(t, &h)
	}
	want := []int64{10, 10, 20, 30, 40, 50}
	if len(got) != len(want) {
		t.Fatalf("drained %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

// Min peeks without removing; empty heap returns nil.
func TestHeap_Min(t *testing.T) {
	t.Parallel()

	var h Heap
	if h.Min() != nil || h.PopMin() != nil {
		t.Fatal("empty heap must return nil")
	}

	h.Push(newItem(20))
	h.Push(newItem(5))
	if h.Min().Deadline() != 5 {
		t.Fatalf("Min = %d, want 5", h.Min().Deadline())
	}
	if h.Len() != 2 {
		t.Fatalf("Min must not remove; len=%d", h.Len())
	}
}

// Remove from an arbitrary position keeps the heap valid and the item's
// slot cleared; removing an untracked item is a no-op.
func TestHeap_RemoveArbitrary(t *testing.T) {
	t.Parallel()

	var h Heap
	items := make([]*item, 0, 8)
	for _, d := range []int64{80, 30, 60, 10, 70, 20, 50, 40} {
		it := newItem(d)
		items = append(items, it)
		h.Push(it)
	}

	victim := items[4] // deadline 70, somewhere mid-heap
	h.Remove(victim)
	if victim.Slot() != -1 {
		t.Fatalf("removed item keeps slot %d", victim.Slot())
	}
	checkInvariants(t, &h)

	// Removing again must be a no-op.
	h.Remove(victim)
	if h.Len() != 7 {
		t.Fatalf("double Remove changed len to %d", h.Len())
	}

	if h.Min().Deadline() != 10 {
		t.Fatalf("Min = %d after removal, want 10", h.Min().Deadline())
	}
}

// Fix repositions an item after its deadline changed in place, both up
// and down.
func TestHeap_FixAfterDeadlineChange(t *testing.T) {
	t.Parallel()

	var h Heap
	a, b, c := newItem(10), newItem(20), newItem(30)
	h.Push(a)
	h.Push(b)
	h.Push(c)

	// Push the min far out: c must surface.
	a.deadline = 100
	h.Fix(a)
	checkInvariants(t, &h)
	if h.Min() != b {
		t.Fatalf("Min after pushing a out = %d, want b(20)", h.Min().Deadline())
	}

	// Pull c under everything: it must become the root.
	c.deadline = 1
	h.Fix(c)
	checkInvariants(t, &h)
	if h.Min() != c {
		t.Fatalf("Min after pulling c in = %d, want c(1)", h.Min().Deadline())
	}
}

// Reset drops everything and clears slots so items are reusable.
func TestHeap_Reset(t *testing.T) {
	t.Parallel()

	var h Heap
	its := []*item{newItem(3), newItem(1), newItem(2)}
	for _, it := range its {
		h.Push(it)
	}
	h.Reset()
	if h.Len() != 0 || h.Min() != nil {
		t.Fatal("Reset must empty the heap")
	}
	for _, it := range its {
		if it.Slot() != -1 {
			t.Fatalf("Reset left slot %d", it.Slot())
		}
	}
}

// Randomized mix of Push/Remove/Fix/PopMin against a sorted reference.
func TestHeap_RandomizedAgainstSort(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1))
	var h Heap
	live := make(map[*item]struct{})

	for op := 0; op < 5_000; op++ {
		switch r.Intn(10) {
		case 0, 1, 2, 3, 4: // push
			it := newItem(int64(r.Intn(1_000)))
			h.Push(it)
			live[it] = struct{}{}
		case 5, 6: // remove arbitrary
			for it := range live {
				h.Remove(it)
				delete(live, it)
				break
			}
		case 7: // fix after in-place change
			for it := range live {
				it.deadline = int64(r.Intn(1_000))
				h.Fix(it)
				break
			}
		default: // pop min
			if it := h.PopMin(); it != nil {
				delete(live, it.(*item))
			}
		}
	}
	checkInvariants(t, &h)
	if h.Len() != len(live) {
		t.Fatalf("len=%d, reference=%d", h.Len(), len(live))
	}

	// Draining must match the sorted deadlines of surviving items.
	want := make([]int64, 0, len(live))
	for it := range live {
		want = append(want, it.deadline)
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	for i, d := range want {
		it := h.PopMin()
		if it == nil || it.Deadline() != d {
			t.Fatalf("drain %d: got %v, want %d", i, it, d)
		}
	}
}
