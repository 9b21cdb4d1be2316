package irq

// ExceptionNum defines an exception number that can be passed to the
// HandleException and HandleExceptionWithCode functions.
type ExceptionNum uint8

const (
	// BreakpointException is raised by the INT3 instruction.
	BreakpointException = ExceptionNum(3)

	// DoubleFault occurs when an exception is unhandled or when an
	// exception occurs while the CPU is trying to call an exception
	// handler.
	DoubleFault = ExceptionNum(8)

	// GPFException is raised when a general protection fault occurs.
	GPFException = ExceptionNum(13)

	// PageFaultException is raised when a PDT or PDT-entry is not present
	// or when a privilege and/or RW protection check fails.
	PageFaultException = ExceptionNum(14)
)

// IRQNum identifies a legacy PIC interrupt line after it has been remapped
// into the IDT (vector = PIC1Offset + line for lines 0-7, PIC2Offset +
// (line-8) for lines 8-15).
type IRQNum uint8

const (
	// TimerIRQ is raised periodically by the PIT (PIC1, line 0).
	TimerIRQ = IRQNum(0)

	// KeyboardIRQ is raised by the PS/2 controller whenever a scancode
	// byte becomes available (PIC1, line 1).
	KeyboardIRQ = IRQNum(1)
)

// ExceptionHandler is a function that handles an exception that does not push
// an error code to the stack. If the handler returns, any modifications to the
// supplied Frame and/or Regs pointers will be propagated back to the location
// where the exception occurred.
type ExceptionHandler func(*Frame, *Regs)

// ExceptionHandlerWithCode is a function that handles an exception that pushes
// an error code to the stack. If the handler returns, any modifications to the
// supplied Frame and/or Regs pointers will be propagated back to the location
// where the exception occurred.
type ExceptionHandlerWithCode func(uint64, *Frame, *Regs)

// IRQHandler handles a hardware interrupt line. The handler is responsible
// for doing as little work as possible; it must not allocate and must not
// block.
type IRQHandler func(*Frame, *Regs)

// HandleException registers an exception handler (without an error code) for
// the given interrupt number.
func HandleException(exceptionNum ExceptionNum, handler ExceptionHandler)

// HandleExceptionWithCode registers an exception handler (with an error code)
// for the given interrupt number.
func HandleExceptionWithCode(exceptionNum ExceptionNum, handler ExceptionHandlerWithCode)

// HandleExceptionWithIST registers an exception handler (with an error code)
// for the given interrupt number and pins it to the supplied
// interrupt-stack-table slot. istIndex must be 1-7 and refer to a slot
// already installed into the active TSS (see kernel/gdt.Init). This is used
// exclusively for the double-fault gate, which must run on a dedicated stack
// so that a stack-overflow-induced fault does not re-fault on the same
// exhausted stack.
func HandleExceptionWithIST(exceptionNum ExceptionNum, istIndex uint8, handler ExceptionHandlerWithCode)

// HandleIRQ registers a handler for a remapped hardware interrupt line. The
// dispatcher invokes the handler and then signals end-of-interrupt to the
// owning PIC(s) before returning.
func HandleIRQ(irqNum IRQNum, handler IRQHandler)
