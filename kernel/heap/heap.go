// Package heap implements the kernel's pluggable heap allocator. Exactly one
// of the two strategies below (bump.go, freelist.go) is linked into a given
// build via the "bump"/"freelist" build tags; whichever one is active
// provides NewDefault. The language-level Go allocator (kernel/goruntime)
// is a separate concern: it lets ordinary Go values (maps, slices, the
// executor's task table) work at all inside a freestanding image, while
// this package exercises the spec's own bump/free-list strategy directly
// through Box/Vec.
package heap

import (
	"github.com/MikhailMS/radius-os/kernel"
	"github.com/MikhailMS/radius-os/kernel/mem"
	"github.com/MikhailMS/radius-os/kernel/mem/pmm/allocator"
	"github.com/MikhailMS/radius-os/kernel/mem/vmm"
	"github.com/MikhailMS/radius-os/kernel/sync"
)

// Start is the fixed virtual address at which the kernel heap window begins.
const Start = uintptr(0x4444_4444_0000)

// Size is the fixed size of the kernel heap window.
const Size = mem.Size(100 * 1024)

// ErrOutOfMemory is the value NewBox and Vec growth panic with when the
// heap cannot satisfy an allocation request within the heap window.
var ErrOutOfMemory = &kernel.Error{Module: "heap", Message: "heap is out of memory"}

// Allocator is the contract every kernel heap strategy satisfies. It mirrors
// the original Rust project's GlobalAlloc trait: Alloc returns the virtual
// address of a newly reserved region of the requested size and alignment,
// or 0 if the request could not be satisfied; Dealloc returns a
// previously-allocated region to the strategy's free space.
type Allocator interface {
	// Init configures the allocator to manage [start, start+size).
	// It must be called exactly once, before any call to Alloc.
	Init(start uintptr, size mem.Size)

	// Alloc reserves size bytes aligned to align and returns their
	// address, or 0 if the request cannot be satisfied.
	Alloc(size mem.Size, align uintptr) uintptr

	// Dealloc releases a region previously returned by Alloc. The exact
	// size and alignment passed to the original Alloc call must be
	// supplied again, matching the Rust GlobalAlloc::dealloc contract.
	Dealloc(addr uintptr, size mem.Size, align uintptr)
}

// Locked wraps an Allocator behind a spinlock so it can be safely shared as
// a single module-level instance, mirroring the original source's
// LockedAllocator<A> wrapper around a spin::Mutex.
type Locked struct {
	mu    sync.Spinlock
	alloc Allocator
}

// NewLocked wraps alloc behind a spinlock.
func NewLocked(alloc Allocator) *Locked {
	return &Locked{alloc: alloc}
}

// Init configures the wrapped allocator. It must be called exactly once.
func (l *Locked) Init(start uintptr, size mem.Size) {
	l.mu.Acquire()
	defer l.mu.Release()
	l.alloc.Init(start, size)
}

// Alloc reserves size bytes aligned to align.
func (l *Locked) Alloc(size mem.Size, align uintptr) uintptr {
	l.mu.Acquire()
	defer l.mu.Release()
	return l.alloc.Alloc(size, align)
}

// Dealloc releases a previously allocated region.
func (l *Locked) Dealloc(addr uintptr, size mem.Size, align uintptr) {
	l.mu.Acquire()
	defer l.mu.Release()
	l.alloc.Dealloc(addr, size, align)
}

// alignUp rounds addr up to the next multiple of align (align must be a
// power of two).
func alignUp(addr uintptr, align uintptr) uintptr {
	remainder := addr % align
	if remainder == 0 {
		return addr
	}
	return addr - remainder + align
}

// global is the single, replaceable heap strategy instance visible to every
// Box/Vec allocation, initialized exactly once by Init below. This mirrors
// the original source's #[global_allocator] static.
var global *Locked

var (
	// mapFn and frameAllocFn are used by tests to substitute the real VMM
	// mapping and physical frame allocation with fakes.
	mapFn        = vmm.Map
	frameAllocFn = allocator.AllocFrame
)

// Init maps the heap window [Start, Start+Size) and installs the
// build-tag-selected default allocator strategy as the single global heap
// instance. Init must be called exactly once, before any Box/Vec
// allocation, and after the VMM has been initialized.
func Init() *kernel.Error {
	regionSize := (Size + mem.PageSize - 1) &^ (mem.PageSize - 1)
	pageCount := uintptr(regionSize) >> mem.PageShift

	mapFlags := vmm.FlagPresent | vmm.FlagRW
	for page := vmm.PageFromAddress(Start); pageCount > 0; pageCount, page = pageCount-1, page+1 {
		frame, err := frameAllocFn()
		if err != nil {
			return err
		}

		if err = mapFn(page, frame, mapFlags, frameAllocFn); err != nil {
			return err
		}
	}

	global = NewLocked(NewDefault())
	global.Init(Start, Size)
	return nil
}

// Alloc reserves size bytes aligned to align from the global heap instance.
// It panics if Init has not been called yet, matching the Rust
// project's reliance on a pre-mapped #[global_allocator].
func Alloc(size mem.Size, align uintptr) uintptr {
	if global == nil {
		panic(&kernel.Error{Module: "heap", Message: "heap has not been initialized"})
	}
	return global.Alloc(size, align)
}

// Dealloc releases a region previously returned by Alloc from the global
// heap instance.
func Dealloc(addr uintptr, size mem.Size, align uintptr) {
	if global == nil {
		panic(&kernel.Error{Module: "heap", Message: "heap has not been initialized"})
	}
	global.Dealloc(addr, size, align)
}
