// Package cpu exposes the small set of amd64 primitives that cannot be
// expressed in portable Go: control-register access, port I/O and the
// handful of instructions (cli/sti/hlt) that have no Go equivalent. Every
// function below is implemented in a matching assembly file outside this
// repository's scope (see SPEC_FULL.md §2) and is declared here with no
// body purely to give the rest of the kernel a typed Go entrypoint.
package cpu

// EnableInterrupts enables interrupt handling (STI).
func EnableInterrupts()

// DisableInterrupts disables interrupt handling (CLI).
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt (HLT).
func Halt()

// EnableAndHalt re-enables interrupts and halts in a single instruction pair
// (STI; HLT) with no gap between the two. sti only takes effect after the
// instruction following it has executed, so an interrupt raised concurrently
// with a DisableInterrupts/check-empty sequence is guaranteed to still wake
// the halted CPU instead of being missed between a separate EnableInterrupts
// and Halt call.
func EnableAndHalt()

// FlushTLBEntry flushes a TLB entry for a particular virtual address.
func FlushTLBEntry(virtAddr uintptr)

// SwitchPDT sets the root page table directory to point to the specified
// physical address and flushes the TLB.
func SwitchPDT(pdtPhysAddr uintptr)

// ActivePDT returns the physical address of the currently active page table
// (the value of CR3 with its low flag bits masked off).
func ActivePDT() uintptr

// ReadCR2 returns the faulting virtual address recorded by the CPU in CR2
// during the most recent page fault.
func ReadCR2() uint64

// Outb writes a byte to the given I/O port.
func Outb(port uint16, value uint8)

// Inb reads a byte from the given I/O port.
func Inb(port uint16) uint8
