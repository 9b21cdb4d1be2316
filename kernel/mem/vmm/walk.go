package vmm

import (
	"unsafe"

	"github.com/MikhailMS/radius-os/kernel/hal/multiboot"
	"github.com/MikhailMS/radius-os/kernel/mem"
)

// pageLevels is the number of page table levels traversed for each address
// translation (P4, P3, P2, P1 on amd64).
const pageLevels = 4

// pageLevelShifts[i] is the bit offset of the table index for level i within
// a virtual address.
var pageLevelShifts = [pageLevels]uint8{39, 30, 21, 12}

// pageLevelBits is the number of bits each level's table index occupies.
var pageLevelBits = [pageLevels]uint8{9, 9, 9, 9}

var (
	// ptePtrFn dereferences the physical address of a page table entry and
	// returns a pointer to it. Physical memory is reachable through the
	// bootloader-established physical-memory-offset window, so this is
	// simply an addition; tests override it to read/write a fake in-memory
	// table instead. When compiling the kernel this function is
	// automatically inlined.
	ptePtrFn = func(entryAddr uintptr) unsafe.Pointer {
		return unsafe.Pointer(entryAddr + physMemOffsetFn())
	}

	// physMemOffsetFn is used by tests to override the physical-memory
	// offset lookup without depending on the multiboot package's global
	// state.
	physMemOffsetFn = multiboot.PhysMemOffset
)

// pageTableWalker is a function that can be passed to walk. The function
// receives the current page level and page table entry as its arguments. If
// the function returns false, the page walk is aborted.
type pageTableWalker func(pteLevel uint8, pte *pageTableEntry) bool

// walk performs a page table walk for the given virtual address, starting
// from the currently active P4 table (read from CR3). It calls walkFn with
// the page table entry that corresponds to each page table level.
func walk(virtAddr uintptr, walkFn pageTableWalker) {
	var (
		level      uint8
		tableAddr  = activePDTFn()
		entryAddr  uintptr
		entryIndex uintptr
	)

	for level = 0; level < pageLevels; level++ {
		entryIndex = (virtAddr >> pageLevelShifts[level]) & ((1 << pageLevelBits[level]) - 1)
		entryAddr = tableAddr + (entryIndex << mem.PointerShift)

		pte := (*pageTableEntry)(ptePtrFn(entryAddr))
		if !walkFn(level, pte) {
			return
		}

		tableAddr = pte.Frame().Address()
	}
}
