// Package serial drives the 16550 UART at the standard COM1 I/O port,
// grounded on original_source/src/serial_uart.rs's use of the uart_16550
// crate's SerialPort. It exists purely as a diagnostic sink for test builds
// (spec.md's test harness writes its pass/fail report here), independent of
// the EGA console the rest of the kernel prints to.
package serial

import (
	"github.com/MikhailMS/radius-os/kernel/cpu"
	"github.com/MikhailMS/radius-os/kernel/sync"
)

// Com1 is the standard I/O port base address of the first serial port.
const Com1 uint16 = 0x3F8

const (
	regData       = 0
	regIntEnable  = 1
	regFIFOCtrl   = 2
	regLineCtrl   = 3
	regModemCtrl  = 4
	regLineStatus = 5
)

const lineStatusTransmitEmpty = 1 << 5

var (
	// outbFn and inbFn are used by tests to override port I/O, which would
	// otherwise fault when run outside ring 0.
	outbFn = cpu.Outb
	inbFn  = cpu.Inb
)

// Port is a single 16550 UART, guarded by a spinlock so concurrent writers
// (a panic handler running on top of an in-progress diagnostic print, say)
// interleave whole writes rather than individual bytes.
type Port struct {
	mu   sync.Spinlock
	base uint16
}

// New returns a Port for the UART at base, performing the same
// disable-interrupts/set-baud/8N1/FIFO/RTS-DSR initialization sequence
// uart_16550::SerialPort::init runs.
func New(base uint16) *Port {
	p := &Port{base: base}
	p.init()
	return p
}

func (p *Port) init() {
	outbFn(p.base+regIntEnable, 0x00) // disable all interrupts
	outbFn(p.base+regLineCtrl, 0x80)  // enable DLAB to set the baud divisor
	outbFn(p.base+regData, 0x03)      // divisor low byte: 38400 baud
	outbFn(p.base+regIntEnable, 0x00) // divisor high byte
	outbFn(p.base+regLineCtrl, 0x03)  // 8 bits, no parity, one stop bit
	outbFn(p.base+regFIFOCtrl, 0xC7)  // enable FIFO, clear, 14-byte threshold
	outbFn(p.base+regModemCtrl, 0x0B) // IRQs enabled, RTS/DSR set
	outbFn(p.base+regIntEnable, 0x01) // enable received-data-available interrupt
}

func (p *Port) transmitReady() bool {
	return inbFn(p.base+regLineStatus)&lineStatusTransmitEmpty != 0
}

func (p *Port) writeByte(b byte) {
	for !p.transmitReady() {
	}
	outbFn(p.base+regData, b)
}

// Write sends every byte in data over the serial line. It always returns
// len(data), nil: a 16550 UART has no failure mode this driver surfaces.
func (p *Port) Write(data []byte) (int, error) {
	p.mu.Acquire()
	defer p.mu.Release()

	for _, b := range data {
		if b == '\n' {
			p.writeByte('\r')
		}
		p.writeByte(b)
	}
	return len(data), nil
}
