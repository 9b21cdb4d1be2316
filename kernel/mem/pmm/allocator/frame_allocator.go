// Package allocator implements the kernel's physical frame allocator: a
// cursor over the flattened sequence of 4KiB frames derived from the
// bootloader-supplied memory map.
package allocator

import (
	"github.com/MikhailMS/radius-os/kernel"
	"github.com/MikhailMS/radius-os/kernel/hal/multiboot"
	"github.com/MikhailMS/radius-os/kernel/kfmt/early"
	"github.com/MikhailMS/radius-os/kernel/mem"
	"github.com/MikhailMS/radius-os/kernel/mem/pmm"
)

// Default is the single frame allocator instance used by the rest of the
// kernel. It is created once during boot (via Init) and never destroyed;
// this core has no facility for returning frames to the allocator.
var Default FrameAllocator

var errOutOfMemory = &kernel.Error{Module: "pmm_alloc", Message: "out of memory"}

// FrameAllocator hands out distinct frames from the Usable regions of the
// bootloader memory map by walking a monotonically increasing cursor over
// the flattened frame sequence. It never reuses a frame and never returns
// one that overlaps a region the bootloader marked Reserved.
type FrameAllocator struct {
	allocCount     uint64
	hasAllocated   bool
	lastAllocFrame pmm.Frame

	// kernelStartFrame/kernelEndFrame bracket the frames occupied by the
	// running kernel image so AllocFrame never hands one of them out.
	kernelStartAddr, kernelEndAddr   uintptr
	kernelStartFrame, kernelEndFrame pmm.Frame
}

// Init records the physical extents of the loaded kernel image and prints
// the system memory map. It must run exactly once, before any call to
// AllocFrame.
func (a *FrameAllocator) Init(kernelStart, kernelEnd uintptr) {
	pageSizeMinus1 := uintptr(mem.PageSize - 1)
	a.kernelStartAddr = kernelStart
	a.kernelEndAddr = kernelEnd
	a.kernelStartFrame = pmm.Frame((kernelStart & ^pageSizeMinus1) >> mem.PageShift)
	a.kernelEndFrame = pmm.Frame(((kernelEnd+pageSizeMinus1) & ^pageSizeMinus1)>>mem.PageShift) - 1

	a.printMemoryMap()
}

// AllocFrame scans the system memory regions reported by the bootloader and
// reserves the next available free frame that does not overlap the running
// kernel image. It returns errOutOfMemory once no Usable region has any
// frame left past the cursor.
func (a *FrameAllocator) AllocFrame() (pmm.Frame, *kernel.Error) {
	found := false

	multiboot.VisitMemRegions(func(region *multiboot.MemoryMapEntry) bool {
		if region.Type != multiboot.MemAvailable || region.Length < uint64(mem.PageSize) {
			return true
		}

		pageSizeMinus1 := uint64(mem.PageSize - 1)
		regionStartFrame := pmm.Frame(((region.PhysAddress + pageSizeMinus1) & ^pageSizeMinus1) >> mem.PageShift)
		regionEndFrame := pmm.Frame(((region.PhysAddress+region.Length) & ^pageSizeMinus1)>>mem.PageShift) - 1

		if a.hasAllocated && a.lastAllocFrame >= regionEndFrame {
			return true // already exhausted this region
		}

		switch {
		case (a.hasAllocated && a.lastAllocFrame <= regionStartFrame && a.kernelStartFrame == regionStartFrame) ||
			(a.hasAllocated && a.lastAllocFrame <= regionEndFrame && a.lastAllocFrame+1 == a.kernelStartFrame):
			// The next candidate frame falls inside the kernel image; jump past it.
			a.lastAllocFrame = a.kernelEndFrame + 1
		case !a.hasAllocated || a.lastAllocFrame < regionStartFrame:
			a.lastAllocFrame = regionStartFrame
		default:
			a.lastAllocFrame++
		}

		if a.lastAllocFrame > regionEndFrame {
			return true
		}

		found = true
		return false
	})

	if !found {
		return pmm.InvalidFrame, errOutOfMemory
	}

	a.hasAllocated = true
	a.allocCount++
	return a.lastAllocFrame, nil
}

func (a *FrameAllocator) printMemoryMap() {
	early.Printf("[pmm_alloc] system memory map:\n")
	var totalFree mem.Size
	multiboot.VisitMemRegions(func(region *multiboot.MemoryMapEntry) bool {
		early.Printf("\t[0x%10x - 0x%10x], size: %10d, type: %s\n", region.PhysAddress, region.PhysAddress+region.Length, region.Length, region.Type.String())

		if region.Type == multiboot.MemAvailable {
			totalFree += mem.Size(region.Length)
		}
		return true
	})
	early.Printf("[pmm_alloc] free memory: %dKb\n", uint64(totalFree/mem.Kb))
	early.Printf("[pmm_alloc] kernel loaded at 0x%x - 0x%x\n", a.kernelStartAddr, a.kernelEndAddr)
}

// Init initializes the package-wide Default allocator.
func Init(kernelStart, kernelEnd uintptr) *kernel.Error {
	Default.Init(kernelStart, kernelEnd)
	return nil
}

// AllocFrame allocates a frame from the package-wide Default allocator. It
// matches the vmm.FrameAllocatorFn signature and is used to bootstrap the
// mapper before a more advanced allocator could ever exist.
func AllocFrame() (pmm.Frame, *kernel.Error) {
	return Default.AllocFrame()
}
