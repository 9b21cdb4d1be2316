package main

import "github.com/MikhailMS/radius-os/kernel/kmain"

var (
	multibootInfoPtr uintptr
	kernelStart      uintptr
	kernelEnd        uintptr
	physMemOffset    uintptr
)

// main makes a dummy call to the actual kernel main entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code.
//
// Global variables are passed as arguments to Kmain to prevent the compiler
// from inlining the actual call and removing Kmain from the generated .o file.
// kernelStart/kernelEnd are patched by the linker script to the bounds of the
// loaded kernel image so the frame allocator can exclude them from the usable
// memory map; physMemOffset is patched to the offset at which the bootloader
// has identity-windowed all of physical memory.
func main() {
	kmain.Kmain(multibootInfoPtr, kernelStart, kernelEnd, physMemOffset)
}
