package heap

import (
	"unsafe"

	"github.com/MikhailMS/radius-os/kernel/mem"
)

// Box owns a single heap-allocated value of type T, the way Rust's
// alloc::boxed::Box does in the original kernel this core is based on (see
// original_source/tests/heap_allocation.rs's simple_allocation/many_boxes
// scenarios). Unlike a plain Go pointer, the backing memory comes from the
// package's own pluggable Alloc/Dealloc rather than the Go runtime's
// allocator, so kernel code can exercise the bump/free-list strategy
// directly instead of only through goroutine-managed values.
type Box[T any] struct {
	ptr *T
}

// NewBox allocates space for a T, initializes it to value and returns a Box
// owning it. It panics with ErrOutOfMemory if the heap cannot satisfy the
// request.
func NewBox[T any](value T) *Box[T] {
	var zero T
	addr := Alloc(mem.Size(unsafe.Sizeof(zero)), unsafe.Alignof(zero))
	if addr == 0 {
		panic(ErrOutOfMemory)
	}

	p := (*T)(unsafe.Pointer(addr))
	*p = value
	return &Box[T]{ptr: p}
}

// Get returns the boxed value.
func (b *Box[T]) Get() T {
	return *b.ptr
}

// Set replaces the boxed value in place.
func (b *Box[T]) Set(value T) {
	*b.ptr = value
}

// Free releases the boxed value's memory back to the heap. The Box must not
// be used again afterwards.
func (b *Box[T]) Free() {
	var zero T
	Dealloc(uintptr(unsafe.Pointer(b.ptr)), mem.Size(unsafe.Sizeof(zero)), unsafe.Alignof(zero))
	b.ptr = nil
}
