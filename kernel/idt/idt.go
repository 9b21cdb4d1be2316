// Package idt wires the CPU-level exception and IRQ dispatch primitives
// exposed by kernel/irq into the handlers this kernel actually needs:
// a non-fatal breakpoint trap, a double fault pinned to the dedicated IST
// stack set up by kernel/gdt, the timer tick that drives the cooperative
// task executor's periodic wake-up, and the keyboard IRQ that feeds raw
// scancodes into kernel/keyboard.
package idt

import (
	"github.com/MikhailMS/radius-os/kernel"
	"github.com/MikhailMS/radius-os/kernel/cpu"
	"github.com/MikhailMS/radius-os/kernel/irq"
	"github.com/MikhailMS/radius-os/kernel/keyboard"
	"github.com/MikhailMS/radius-os/kernel/kfmt/early"
)

// scancodePort is the PS/2 controller's data port; a byte is available to
// read there whenever the keyboard IRQ fires.
const scancodePort uint16 = 0x60

var (
	// the following functions are mocked by tests and are automatically
	// inlined by the compiler.
	handleExceptionFn        = irq.HandleException
	handleExceptionWithISTFn = irq.HandleExceptionWithIST
	handleIRQFn              = irq.HandleIRQ
	panicFn                  = kernel.Panic
	inbFn                    = cpu.Inb
	addScancodeFn            = keyboard.AddScancode
)

var errDoubleFault = &kernel.Error{Module: "idt", Message: "double fault"}

// TickHandler is invoked once per timer interrupt when it is non-nil. No
// package in this kernel assigns it, so by default the timer handler does
// nothing beyond taking the interrupt.
var TickHandler func()

func breakpointHandler(frame *irq.Frame, regs *irq.Regs) {
	early.Printf("\nBreakpoint hit:\n")
	regs.Print()
	frame.Print()
}

func doubleFaultHandler(_ uint64, frame *irq.Frame, regs *irq.Regs) {
	early.Printf("\nDouble fault:\n")
	regs.Print()
	frame.Print()
	panicFn(errDoubleFault)
}

func timerHandler(_ *irq.Frame, _ *irq.Regs) {
	if TickHandler != nil {
		TickHandler()
	}
}

func keyboardHandler(_ *irq.Frame, _ *irq.Regs) {
	addScancodeFn(inbFn(scancodePort))
}

// Init installs the breakpoint, double-fault, timer and keyboard handlers.
// istIndex identifies the interrupt-stack-table slot (kernel/gdt's
// DoubleFaultISTIndex) that the double-fault gate must run on.
func Init(istIndex uint8) *kernel.Error {
	handleExceptionFn(irq.BreakpointException, breakpointHandler)
	handleExceptionWithISTFn(irq.DoubleFault, istIndex, doubleFaultHandler)
	handleIRQFn(irq.TimerIRQ, timerHandler)
	handleIRQFn(irq.KeyboardIRQ, keyboardHandler)

	return nil
}
