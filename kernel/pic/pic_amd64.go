// Package pic drives the legacy 8259 programmable interrupt controller pair
// found on PC-compatible hardware. The PIC defaults to delivering IRQs on
// vectors 0-15, which collide with the CPU's own exception vectors; this
// package remaps both controllers onto a pair of free vector ranges and
// lets callers mask individual IRQ lines and acknowledge serviced ones.
package pic

import "github.com/MikhailMS/radius-os/kernel/cpu"

const (
	pic1Command = 0x20
	pic1Data    = 0x21
	pic2Command = 0xA0
	pic2Data    = 0xA1

	icw1Init  = 0x11
	icw4_8086 = 0x01

	eoiCmd = 0x20
)

var (
	// outbFn and inbFn are used by tests to override port I/O, which would
	// otherwise fault when run outside ring 0.
	outbFn = cpu.Outb
	inbFn  = cpu.Inb
)

// Remap reprograms both PICs so that PIC1 delivers its 8 IRQ lines starting
// at vector offset1 and PIC2 starts at offset2. All lines on both
// controllers are masked after the call returns; callers must explicitly
// Unmask the lines they intend to service.
func Remap(offset1, offset2 uint8) {
	// Save the existing interrupt masks.
	mask1 := inbFn(pic1Data)
	mask2 := inbFn(pic2Data)

	outbFn(pic1Command, icw1Init)
	outbFn(pic2Command, icw1Init)

	outbFn(pic1Data, offset1)
	outbFn(pic2Data, offset2)

	// Tell PIC1 that a PIC2 is wired to its IRQ line 2, and tell PIC2 its
	// cascade identity.
	outbFn(pic1Data, 4)
	outbFn(pic2Data, 2)

	outbFn(pic1Data, icw4_8086)
	outbFn(pic2Data, icw4_8086)

	outbFn(pic1Data, mask1)
	outbFn(pic2Data, mask2)
}

// Mask disables delivery of the given legacy IRQ line (0-15).
func Mask(line uint8) {
	port, bit := lineToPort(line)
	outbFn(port, inbFn(port)|bit)
}

// Unmask enables delivery of the given legacy IRQ line (0-15).
func Unmask(line uint8) {
	port, bit := lineToPort(line)
	outbFn(port, inbFn(port)&^bit)
}

// EndOfInterrupt signals the PIC(s) that the handler for the given legacy
// IRQ line has completed. Both PICs must be notified for lines 8-15 since
// PIC2 is cascaded through PIC1.
func EndOfInterrupt(line uint8) {
	if line >= 8 {
		outbFn(pic2Command, eoiCmd)
	}
	outbFn(pic1Command, eoiCmd)
}

func lineToPort(line uint8) (port uint16, bit uint8) {
	if line < 8 {
		return pic1Data, 1 << line
	}
	return pic2Data, 1 << (line - 8)
}
