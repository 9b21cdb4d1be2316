// Package qemu exposes the isa-debug-exit device QEMU emulates at I/O port
// 0xf4, grounded on original_source/src/qemu_codes.rs by name (the file
// itself was not part of this core's retrieval pack, so the port/exit-code
// values below come directly from the literal constants spec.md documents).
// Writing a byte to the port shuts the virtual machine down and reports
// (code << 1) | 1 as the host process's exit status.
package qemu

import "github.com/MikhailMS/radius-os/kernel/cpu"

// ExitCode is a one-byte value written to the isa-debug-exit port.
type ExitCode uint8

const (
	// ExitSuccess reports that the test run run passed.
	ExitSuccess ExitCode = 0x10
	// ExitFailure reports that the test run failed.
	ExitFailure ExitCode = 0x11
)

// exitPort is the I/O port QEMU's isa-debug-exit device is configured at.
const exitPort uint16 = 0xf4

// outbFn is used by tests to override port I/O, which would otherwise fault
// when run outside ring 0.
var outbFn = cpu.Outb

// Exit writes code to the isa-debug-exit port, shutting down the running
// QEMU instance. It never returns under real hardware/emulation.
func Exit(code ExitCode) {
	outbFn(exitPort, uint8(code))
}
