// +build freelist

package heap

import (
	"unsafe"

	"github.com/MikhailMS/radius-os/kernel/mem"
)

// listNode is a free-region header written in place at the start of the
// region it describes. Per the "self-referential free-list nodes" design
// note, a header must never be copied out of place while it represents a
// live region; it is always read and written through a raw pointer.
type listNode struct {
	size uintptr
	next uintptr // address of the next listNode, or 0
}

func (n *listNode) startAddr() uintptr { return uintptr(unsafe.Pointer(n)) }
func (n *listNode) endAddr() uintptr   { return n.startAddr() + n.size }

// freeListAllocator tracks free regions as a singly-linked list threaded
// through the regions themselves. It never coalesces adjacent free regions;
// long-lived fragmentation is an accepted limitation carried from the
// original project.
type freeListAllocator struct {
	headNext uintptr // address of the first free region, or 0
}

// NewDefault returns the heap strategy selected by this build (free-list).
func NewDefault() Allocator {
	return &freeListAllocator{}
}

func (f *freeListAllocator) Init(start uintptr, size mem.Size) {
	f.addFreeRegion(start, uintptr(size))
}

func (f *freeListAllocator) addFreeRegion(addr, size uintptr) {
	const nodeAlign = unsafe.Alignof(listNode{})
	if alignUp(addr, nodeAlign) != addr {
		panic("heap: free region is not aligned for a list node header")
	}
	if size < unsafe.Sizeof(listNode{}) {
		panic("heap: free region is too small to hold a list node header")
	}

	node := (*listNode)(unsafe.Pointer(addr))
	node.size = size
	node.next = f.headNext
	f.headNext = addr
}

// findRegion removes and returns the first free region large enough to
// satisfy size/align, together with its start and end address.
func (f *freeListAllocator) findRegion(size, align uintptr) (allocStart, allocEnd, excessSize uintptr, ok bool) {
	prevNextField := &f.headNext
	curAddr := f.headNext

	for curAddr != 0 {
		cur := (*listNode)(unsafe.Pointer(curAddr))

		if start, end, excess, fits := allocFromRegion(cur, size, align); fits {
			*prevNextField = cur.next
			return start, end, excess, true
		}

		prevNextField = &cur.next
		curAddr = cur.next
	}

	return 0, 0, 0, false
}

func allocFromRegion(region *listNode, size, align uintptr) (allocStart, allocEnd, excessSize uintptr, ok bool) {
	allocStart = alignUp(region.startAddr(), align)
	allocEnd = allocStart + size
	if allocEnd < allocStart || allocEnd > region.endAddr() {
		return 0, 0, 0, false
	}

	excessSize = region.endAddr() - allocEnd
	if excessSize > 0 && excessSize < unsafe.Sizeof(listNode{}) {
		return 0, 0, 0, false
	}

	return allocStart, allocEnd, excessSize, true
}

// sizeAlign adjusts a requested size/alignment so the resulting region is
// always large enough to later hold a listNode header once freed.
func sizeAlign(size mem.Size, align uintptr) (uintptr, uintptr) {
	const nodeAlign = unsafe.Alignof(listNode{})
	if align < nodeAlign {
		align = nodeAlign
	}

	adjustedSize := uintptr(size)
	if adjustedSize < unsafe.Sizeof(listNode{}) {
		adjustedSize = unsafe.Sizeof(listNode{})
	}

	return adjustedSize, align
}

func (f *freeListAllocator) Alloc(size mem.Size, align uintptr) uintptr {
	adjSize, adjAlign := sizeAlign(size, align)

	allocStart, allocEnd, excessSize, ok := f.findRegion(adjSize, adjAlign)
	if !ok {
		return 0
	}

	if excessSize > 0 {
		f.addFreeRegion(allocEnd, excessSize)
	}

	return allocStart
}

func (f *freeListAllocator) Dealloc(addr uintptr, size mem.Size, align uintptr) {
	adjSize, _ := sizeAlign(size, align)
	f.addFreeRegion(addr, adjSize)
}
