// +build bump

package heap

import "github.com/MikhailMS/radius-os/kernel/mem"

// bumpAllocator is a monotonic allocator: Alloc always reserves from a
// single increasing cursor and never reuses space mid-flight. Dealloc only
// resets the cursor back to heapStart once every outstanding allocation has
// been returned (allocations reaching zero), mirroring the original
// project's BumpAllocator exactly, including its "one-shot under typical
// workloads" trade-off (see DESIGN.md).
type bumpAllocator struct {
	heapStart   uintptr
	heapEnd     uintptr
	next        uintptr
	allocations int
}

// NewDefault returns the heap strategy selected by this build (bump).
func NewDefault() Allocator {
	return &bumpAllocator{}
}

func (b *bumpAllocator) Init(start uintptr, size mem.Size) {
	b.heapStart = start
	b.heapEnd = start + uintptr(size)
	b.next = start
}

func (b *bumpAllocator) Alloc(size mem.Size, align uintptr) uintptr {
	allocStart := alignUp(b.next, align)
	allocEnd := allocStart + uintptr(size)
	if allocEnd < allocStart || allocEnd > b.heapEnd {
		return 0
	}

	b.next = allocEnd
	b.allocations++
	return allocStart
}

func (b *bumpAllocator) Dealloc(_ uintptr, _ mem.Size, _ uintptr) {
	b.allocations--
	if b.allocations == 0 {
		b.next = b.heapStart
	}
}
