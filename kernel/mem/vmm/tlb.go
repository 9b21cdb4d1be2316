package vmm

import "github.com/MikhailMS/radius-os/kernel/cpu"

var (
	// activePDTFn is used by tests to override calls to cpu.ActivePDT, which
	// would otherwise fault when run outside ring 0.
	activePDTFn = cpu.ActivePDT

	// switchPDTFn is used by tests to override calls to cpu.SwitchPDT.
	switchPDTFn = cpu.SwitchPDT

	// flushTLBEntryFn is used by tests to override calls to
	// cpu.FlushTLBEntry.
	flushTLBEntryFn = cpu.FlushTLBEntry
)
