package kmain

import (
	"github.com/MikhailMS/radius-os/kernel"
	"github.com/MikhailMS/radius-os/kernel/cpu"
	"github.com/MikhailMS/radius-os/kernel/gdt"
	"github.com/MikhailMS/radius-os/kernel/goruntime"
	"github.com/MikhailMS/radius-os/kernel/hal"
	"github.com/MikhailMS/radius-os/kernel/hal/multiboot"
	"github.com/MikhailMS/radius-os/kernel/heap"
	"github.com/MikhailMS/radius-os/kernel/idt"
	"github.com/MikhailMS/radius-os/kernel/irq"
	"github.com/MikhailMS/radius-os/kernel/keyboard"
	"github.com/MikhailMS/radius-os/kernel/mem/pmm/allocator"
	"github.com/MikhailMS/radius-os/kernel/mem/vmm"
	"github.com/MikhailMS/radius-os/kernel/pic"
	"github.com/MikhailMS/radius-os/kernel/task"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// pic1Offset and pic2Offset are the IDT vectors the legacy PIC's 16 IRQ
// lines are remapped onto, chosen to sit right after the CPU's 32
// reserved exception vectors so none of them collide.
const (
	pic1Offset uint8 = 32
	pic2Offset uint8 = 40
)

// Kmain is the only Go symbol that is visible (exported) from the rt0 initialization
// code. This function is invoked by the rt0 assembly code after setting up the GDT
// and setting up a a minimal g0 struct that allows Go code using the 4K stack
// allocated by the assembly code.
//
// The rt0 code passes the address of the multiboot info payload provided by the
// bootloader, the physical addresses for the kernel start/end, and the
// physical-memory-offset at which the bootloader has identity-windowed all of
// physical memory into the virtual address space.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr, kernelStart, kernelEnd, physMemOffset uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)
	multiboot.SetPhysMemOffset(physMemOffset)

	hal.InitTerminal()
	hal.ActiveTerminal.Clear()

	// (i) descriptor tables: the double-fault IST stack slot, then the
	// exception/IRQ gates that reference it.
	istIndex := gdt.DoubleFaultISTIndex
	gdt.Init()

	var err *kernel.Error
	if err = idt.Init(istIndex); err != nil {
		panic(err)
	}

	// (ii) mask and remap the PIC so its vectors no longer collide with
	// CPU exceptions, then unmask only the lines this kernel services.
	pic.Remap(pic1Offset, pic2Offset)
	pic.Unmask(uint8(irq.TimerIRQ))
	pic.Unmask(uint8(irq.KeyboardIRQ))

	// (iii) interrupts stay disabled until every handler above is wired,
	// so a stray IRQ during setup cannot dispatch into an unready gate.
	cpu.EnableInterrupts()

	// (iv) frame allocator and mapper, fed from the boot-info memory map.
	if err = allocator.Init(kernelStart, kernelEnd); err != nil {
		panic(err)
	} else if err = vmm.Init(); err != nil {
		panic(err)
	} else if err = goruntime.Init(); err != nil {
		panic(err)
	}

	// (v) map and initialize the kernel heap.
	if err = heap.Init(); err != nil {
		panic(err)
	}

	// (vi) construct the executor.
	executor := task.NewExecutor()

	// (vii) spawn the root tasks — at minimum, the keyboard decoder.
	scancodes := keyboard.NewScancodeStream()
	executor.Spawn(keyboard.NewPrintTask(scancodes, printByte))

	// (viii) run forever.
	executor.Run()

	// Use kernel.Panic instead of panic to prevent the compiler from
	// treating kernel.Panic as dead-code and eliminating it.
	kernel.Panic(errKmainReturned)
}

func printByte(b byte) {
	hal.ActiveTerminal.Write([]byte{b})
}
