// Package gdt exposes the subset of descriptor-table setup that this kernel
// manages from Go: the double-fault interrupt-stack-table (IST) slot. The
// five fixed segment descriptors are assumed to already be installed by the
// rt0 bootstrap code (see SPEC_FULL.md §2) and are out of scope here.
package gdt

import "unsafe"

// DoubleFaultISTIndex is the interrupt-stack-table slot that the double-fault
// gate must be configured to switch to. kernel/idt registers the double-fault
// handler against this same index.
const DoubleFaultISTIndex uint8 = 1

// istStackSize is the size, in bytes, of the statically allocated stack used
// exclusively by the double-fault handler.
const istStackSize = 4096

// istStack backs the double-fault IST slot. It is never used for anything
// else, so a stack overflow on the regular kernel stack cannot also exhaust
// this one.
var istStack [istStackSize]byte

// loadTSSFn is used by tests to override calls to loadTSS, which would
// otherwise fault when run outside ring 0.
var loadTSSFn = loadTSS

// Init installs the IST stack into the currently active task-state segment
// and returns the address of its top (stacks grow down on amd64). kernel/idt
// selects this stack for the double-fault gate by its slot index,
// DoubleFaultISTIndex, not by the returned address. This must run after the
// GDT/TSS set up by rt0 is active.
func Init() (istStackTop uintptr) {
	base := uintptr(unsafe.Pointer(&istStack[0]))
	loadTSSFn(base, istStackSize)
	return base + istStackSize
}

// loadTSS installs [istBase, istBase+istSize) as IST slot 1 in the currently
// active task-state segment.
func loadTSS(istBase, istSize uintptr)
