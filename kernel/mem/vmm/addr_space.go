package vmm

import (
	"github.com/MikhailMS/radius-os/kernel"
	"github.com/MikhailMS/radius-os/kernel/mem"
)

// earlyReserveTopAddr is the virtual address immediately above the region
// EarlyReserveRegion hands out. It sits well below the canonical-address
// boundary a 4-level amd64 page table can address, away from the fixed heap
// window and the physical-memory-offset identity window.
const earlyReserveTopAddr = uintptr(0x0000_7000_0000_0000)

var (
	// earlyReserveLastUsed tracks the last reserved page address and is
	// decreased after each allocation request.
	earlyReserveLastUsed = earlyReserveTopAddr

	errEarlyReserveNoSpace = &kernel.Error{Module: "early_reserve", Message: "remaining virtual address space not large enough to satisfy reservation request"}
)

// EarlyReserveRegion reserves a page-aligned contiguous virtual memory region
// with the requested size and returns its virtual address. If size is not a
// multiple of mem.PageSize it is rounded up.
//
// This function allocates regions by walking downwards from a fixed high
// address and is intended for use only during the early stages of kernel
// initialization, before a general-purpose virtual address space allocator
// exists.
func EarlyReserveRegion(size mem.Size) (uintptr, *kernel.Error) {
	size = (size + (mem.PageSize - 1)) & ^(mem.PageSize - 1)

	if uintptr(size) > earlyReserveLastUsed {
		return 0, errEarlyReserveNoSpace
	}

	earlyReserveLastUsed -= uintptr(size)
	return earlyReserveLastUsed, nil
}
