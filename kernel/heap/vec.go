package heap

import (
	"unsafe"

	"github.com/MikhailMS/radius-os/kernel/mem"
)

const vecInitialCap = 4

// Vec is a growable array backed by the package's own Alloc/Dealloc,
// mirroring Rust's alloc::vec::Vec growth behavior (see
// original_source/tests/heap_allocation.rs's large_vec scenario): pushing
// past capacity allocates a new, doubled region, copies the existing
// elements across and frees the old region. The zero value is an empty,
// unallocated Vec ready to use.
type Vec[T any] struct {
	ptr uintptr
	len int
	cap int
}

func (v *Vec[T]) elemSize() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

func (v *Vec[T]) elemAlign() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

func (v *Vec[T]) slotAddr(i int) uintptr {
	return v.ptr + uintptr(i)*v.elemSize()
}

// Len returns the number of elements currently stored.
func (v *Vec[T]) Len() int {
	return v.len
}

// Get returns the element at index i. It panics if i is out of range.
func (v *Vec[T]) Get(i int) T {
	if i < 0 || i >= v.len {
		panic("heap: Vec index out of range")
	}
	return *(*T)(unsafe.Pointer(v.slotAddr(i)))
}

// Set overwrites the element at index i. It panics if i is out of range.
func (v *Vec[T]) Set(i int, value T) {
	if i < 0 || i >= v.len {
		panic("heap: Vec index out of range")
	}
	*(*T)(unsafe.Pointer(v.slotAddr(i))) = value
}

// Push appends value, growing the backing region if necessary.
func (v *Vec[T]) Push(value T) {
	if v.len == v.cap {
		v.grow()
	}
	*(*T)(unsafe.Pointer(v.slotAddr(v.len))) = value
	v.len++
}

func (v *Vec[T]) grow() {
	newCap := v.cap * 2
	if newCap == 0 {
		newCap = vecInitialCap
	}

	newPtr := Alloc(mem.Size(uintptr(newCap)*v.elemSize()), v.elemAlign())
	if newPtr == 0 {
		panic(ErrOutOfMemory)
	}

	if v.cap > 0 {
		oldBytes := uintptr(v.len) * v.elemSize()
		src := unsafe.Slice((*byte)(unsafe.Pointer(v.ptr)), oldBytes)
		dst := unsafe.Slice((*byte)(unsafe.Pointer(newPtr)), oldBytes)
		copy(dst, src)
		Dealloc(v.ptr, mem.Size(uintptr(v.cap)*v.elemSize()), v.elemAlign())
	}

	v.ptr = newPtr
	v.cap = newCap
}

// Free releases the Vec's backing region. The Vec must not be used again
// afterwards except to be reassigned a fresh zero value.
func (v *Vec[T]) Free() {
	if v.cap > 0 {
		Dealloc(v.ptr, mem.Size(uintptr(v.cap)*v.elemSize()), v.elemAlign())
	}
	v.ptr, v.len, v.cap = 0, 0, 0
}
