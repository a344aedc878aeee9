package idt

import (
	"github.com/justeres/eres-os/console"
	"github.com/justeres/eres-os/util/hex"
)

const (
	keyboardDataPort = 0x60

	// eoiRangeStart and eoiRangeEnd bound the vectors that came through
	// the 8259 and need an end-of-interrupt: MasterOffset..SlaveOffset+7.
	eoiRangeStart = 0x20
	eoiRangeEnd   = 0x30
)

// Frame is what the assembly ISR trampoline hands to Dispatch: the
// vector number, the CPU-pushed error code (0 for vectors that don't
// push one), the faulting instruction pointer, and CR2 (valid only for
// VectorPageFault).
type Frame struct {
	Vector    uint8
	ErrorCode uint64
	RIP       uint64
	CR2       uint64
}

// Ticker is satisfied by irq/pit.PIT.
type Ticker interface {
	OnTick()
}

// Feeder is satisfied by irq/keyboard.Decoder.
type Feeder interface {
	Feed(b byte)
}

// EOISender is satisfied by irq/pic.PIC.
type EOISender interface {
	SendEOI(irq uint8)
}

// KeyboardPort reads the single byte the keyboard controller makes
// available on port 0x60.
type KeyboardPort interface {
	In8(port uint16) uint8
}

// Dispatcher is the common ISR entry point every vector's assembly stub
// funnels into. It holds no hardware state of its own beyond the
// collaborators it was built with, so it can be driven from a test with
// fakes in place of pic.PIC, pit.PIT and keyboard.Decoder.
type Dispatcher struct {
	Console  console.Writer
	Ticker   Ticker
	Feeder   Feeder
	EOI      EOISender
	Keyboard KeyboardPort

	// Halt is called after a fatal exception has printed its banner. It
	// must never return. Production wiring sets this to a tight
	// interrupts-disabled HLT loop; tests set it to something that
	// instead records the call and returns, so the test itself doesn't
	// hang.
	Halt func()
}

// Dispatch handles one interrupt frame: PIT ticks and keyboard scancodes
// are handled and acknowledged; anything else not named below is fatal.
func (d *Dispatcher) Dispatch(f Frame) {
	switch f.Vector {
	case VectorDivideByZero:
		d.fatal(f, "divide by zero")
		return
	case VectorInvalidOpcode:
		d.fatal(f, "invalid opcode")
		return
	case VectorDoubleFault:
		d.fatal(f, "double fault")
		return
	case VectorGPFault:
		d.fatal(f, "general protection fault")
		return
	case VectorPageFault:
		d.fatal(f, "page fault")
		return
	case VectorTimer:
		d.Ticker.OnTick()
	case VectorKeyboard:
		d.Feeder.Feed(d.Keyboard.In8(keyboardDataPort))
	default:
		d.fatal(f, "unhandled vector")
		return
	}

	if f.Vector >= eoiRangeStart && f.Vector < eoiRangeEnd {
		d.EOI.SendEOI(f.Vector - eoiRangeStart)
	}
}

// fatal prints the exception banner and halts the machine forever. It
// never returns in production; Halt is the only seam a test can use to
// get control back.
func (d *Dispatcher) fatal(f Frame, reason string) {
	console.WriteLine(d.Console, "FATAL: "+reason)
	console.WriteLine(d.Console, "  vector="+hex.Quad(uint64(f.Vector))+" error="+hex.Quad(f.ErrorCode))
	console.WriteLine(d.Console, "  rip="+hex.Quad(f.RIP))
	if f.Vector == VectorPageFault {
		console.WriteLine(d.Console, "  cr2="+hex.Quad(f.CR2))
	}
	d.Halt()
}
