package heap

import "testing"

func TestAllocAlignmentAndDisjointRanges(t *testing.T) {
	h := New(4096)
	h.Init()

	a := h.Alloc(10, 8)
	b := h.Alloc(3, 1)
	c := h.Alloc(16, 16)

	if a == nil || b == nil || c == nil {
		t.Fatalf("expected three successful allocations, got %v %v %v", a, b, c)
	}

	// Re-derive offsets from the arena to check alignment/disjointness.
	offset := func(p []byte) int {
		for i := 0; i <= len(h.arena)-len(p); i++ {
			if &h.arena[i] == &p[0] {
				return i
			}
		}
		t.Fatalf("allocation not found in arena")
		return -1
	}

	oa, ob, oc := offset(a), offset(b), offset(c)
	if oa%8 != 0 {
		t.Fatalf("a not 8-aligned: %d", oa)
	}
	if oc%16 != 0 {
		t.Fatalf("c not 16-aligned: %d", oc)
	}
	if !(oa+len(a) <= ob || ob+len(b) <= oa) {
		t.Fatalf("a and b overlap")
	}
	if !(ob+len(b) <= oc || oc+len(c) <= ob) {
		t.Fatalf("b and c overlap")
	}
}

func TestAllocFailsWhenExhausted(t *testing.T) {
	h := New(16)
	h.Init()
	if h.Alloc(10, 1) == nil {
		t.Fatalf("expected first alloc to succeed")
	}
	if h.Alloc(10, 1) != nil {
		t.Fatalf("expected second alloc to fail: arena only has 16 bytes")
	}
}

func TestInitIdempotent(t *testing.T) {
	h := New(16)
	h.Init()
	_ = h.Alloc(4, 1)
	h.Init() // should be a no-op, not reset the cursor
	if h.Used() != 4 {
		t.Fatalf("used = %d, want 4 (Init must not reset an already-ready heap)", h.Used())
	}
}

func TestDeallocIsNoop(t *testing.T) {
	h := New(16)
	h.Init()
	a := h.Alloc(8, 1)
	h.Dealloc(a)
	if h.Used() != 8 {
		t.Fatalf("used = %d, want 8 (dealloc must not reclaim space)", h.Used())
	}
}

func TestAllocBeforeInitFails(t *testing.T) {
	h := New(16)
	if h.Alloc(1, 1) != nil {
		t.Fatalf("expected alloc on unready heap to fail")
	}
}
