// +build freelist

package heap

import (
	"testing"
	"unsafe"

	"github.com/MikhailMS/radius-os/kernel/mem"
)

const nodeSize = unsafe.Sizeof(listNode{})

func newFreeListRegion(size mem.Size) (a Allocator, start uintptr) {
	buf := make([]byte, uintptr(size)+uintptr(nodeSize))
	start = alignUp(uintptr(unsafe.Pointer(&buf[0])), unsafe.Alignof(listNode{}))

	a = NewDefault()
	a.Init(start, size)
	return a, start
}

func TestFreeListAllocReusesDeallocatedRegion(t *testing.T) {
	a, start := newFreeListRegion(mem.Size(256))

	p1 := a.Alloc(mem.Size(32), 8)
	if p1 != start {
		t.Fatalf("expected first allocation at region start %#x; got %#x", start, p1)
	}

	a.Dealloc(p1, mem.Size(32), 8)

	p2 := a.Alloc(mem.Size(32), 8)
	if p2 != p1 {
		t.Fatalf("expected reallocation to reuse the freed region at %#x; got %#x", p1, p2)
	}
}

func TestFreeListAllocSplitsExcess(t *testing.T) {
	a, start := newFreeListRegion(mem.Size(256))

	p1 := a.Alloc(mem.Size(32), 8)
	p2 := a.Alloc(mem.Size(32), 8)

	if p1 != start || p2 == p1 {
		t.Fatalf("expected distinct sequential allocations; got p1=%#x p2=%#x", p1, p2)
	}
	if p2 < p1+32 {
		t.Fatalf("expected second allocation to start past the first's region; p1=%#x p2=%#x", p1, p2)
	}
}

func TestFreeListAllocOutOfMemory(t *testing.T) {
	a, _ := newFreeListRegion(mem.Size(32))

	if got := a.Alloc(mem.Size(1024), 8); got != 0 {
		t.Fatalf("expected out-of-memory allocation to return 0; got %#x", got)
	}
}

func TestFreeListNeverCoalesces(t *testing.T) {
	// The heap holds exactly the two 64-byte allocations, so no tail region
	// is left over that could satisfy the 128-byte request below.
	a, start := newFreeListRegion(mem.Size(128))

	p1 := a.Alloc(mem.Size(64), 8)
	p2 := a.Alloc(mem.Size(64), 8)

	a.Dealloc(p1, mem.Size(64), 8)
	a.Dealloc(p2, mem.Size(64), 8)

	// Two adjacent same-size regions were freed independently; a request
	// spanning both would only succeed if they had been coalesced into one.
	if got := a.Alloc(mem.Size(128), 8); got != 0 {
		t.Fatalf("expected allocator to never coalesce adjacent free regions; got %#x want 0", got)
	}

	// Each region individually remains usable though.
	if got := a.Alloc(mem.Size(64), 8); got != p1 && got != p2 {
		t.Fatalf("expected one of the freed regions (%#x or %#x) to still be allocatable; got %#x", p1, p2, got)
	}
}
