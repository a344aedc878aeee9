// Package heap is a linear ("bump") allocator over a fixed-size byte
// arena, protected by a spinning test-and-set lock: the smallest correct
// thing early kernel phases need to back slice/map-like storage (the
// directory-entry list, sector cache lines, shell history) before any
// richer allocator could exist. Deallocation is a no-op; nothing in this
// core ever frees kernel-heap memory.
package heap

import (
	"sync/atomic"
)

// DefaultSize is the default arena size: 256 KiB.
const DefaultSize = 256 * 1024

// Heap is the process-wide bump cursor. The zero value is not ready;
// construct with New and call Init exactly once.
type Heap struct {
	arena []byte
	start uintptrLike
	next  uintptrLike
	end   uintptrLike

	locked atomic.Bool
	ready  atomic.Bool
}

// uintptrLike keeps the cursor arithmetic in one width without importing
// unsafe into the arithmetic itself; the arena's backing array already
// fixes addressing, so offsets into arena are all this type needs to be.
type uintptrLike = uint64

// New allocates an arena of size bytes with make, from the Go runtime in
// tests and in the kernel alike, and returns an unready Heap. The arena is
// never a static array.
func New(size int) *Heap {
	return &Heap{arena: make([]byte, size)}
}

// Init makes the heap ready to serve allocations. Idempotent: a second
// call is a no-op, guarded by the ready flag.
func (h *Heap) Init() {
	if h.ready.Load() {
		return
	}
	h.start = 0
	h.next = 0
	h.end = uint64(len(h.arena))
	h.ready.Store(true)
}

// Ready reports whether Init has run.
func (h *Heap) Ready() bool {
	return h.ready.Load()
}

func (h *Heap) lock() {
	for !h.locked.CompareAndSwap(false, true) {
		// spin
	}
}

func (h *Heap) unlock() {
	h.locked.Store(false)
}

// Alloc reserves size bytes aligned to align (which must be a power of
// two), returning a byte slice view into the arena, or nil if the arena is
// exhausted.
func (h *Heap) Alloc(size int, align int) []byte {
	if !h.ready.Load() || size < 0 || align <= 0 {
		return nil
	}
	h.lock()
	defer h.unlock()

	aligned := alignUp(h.next, uint64(align))
	newNext := aligned + uint64(size)
	if newNext > h.end {
		return nil
	}
	h.next = newNext
	return h.arena[aligned:newNext:newNext]
}

// Dealloc is a no-op: the bump allocator never reclaims memory.
func (h *Heap) Dealloc([]byte) {}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

// Used returns the number of bytes handed out so far.
func (h *Heap) Used() int {
	return int(h.next - h.start)
}

// Cap returns the arena's total size.
func (h *Heap) Cap() int {
	return len(h.arena)
}
