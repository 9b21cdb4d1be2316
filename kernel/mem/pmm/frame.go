// Package pmm contains the types describing physical memory frames. Frames
// are immutable identifiers; their contents are only ever touched through a
// virtual mapping installed by the vmm package.
package pmm

import (
	"math"

	"github.com/MikhailMS/radius-os/kernel/mem"
)

// Frame describes a physical memory page index. Multiplying a Frame by
// mem.PageSize yields the physical address of the first byte of the frame.
type Frame uint64

// InvalidFrame is returned by frame allocators when they fail to reserve a
// frame (out of usable memory).
const InvalidFrame = Frame(math.MaxUint64)

// IsValid returns true if this is a valid frame.
func (f Frame) IsValid() bool {
	return f != InvalidFrame
}

// Address returns the physical memory address of the first byte of this frame.
func (f Frame) Address() uintptr {
	return uintptr(f << mem.PageShift)
}
