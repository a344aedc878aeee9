//go:build amd64 && freestanding

package idt

import "unsafe"

// table is the single process-wide IDT; lidt takes its address once at
// boot and the CPU consults it directly from then on.
var table Table

// active is the Dispatcher every ISR trampoline below funnels into. It is
// set once by Install and never reassigned afterwards.
var active *Dispatcher

// Install builds the IDT, points every vector this core recognizes at
// its own trampoline, points the rest at a trampoline that reports them
// as unhandled, and issues lidt. d becomes the target of every
// subsequent interrupt until the next Install call.
func Install(d *Dispatcher) {
	active = d

	for v := 0; v < EntryCount; v++ {
		table.SetGate(uint8(v), isrUnhandledAddr())
	}
	table.SetGate(VectorDivideByZero, isrDivideByZeroAddr())
	table.SetGate(VectorInvalidOpcode, isrInvalidOpcodeAddr())
	table.SetGate(VectorDoubleFault, isrDoubleFaultAddr())
	table.SetGate(VectorGPFault, isrGPFaultAddr())
	table.SetGate(VectorPageFault, isrPageFaultAddr())
	table.SetGate(VectorTimer, isrTimerAddr())
	table.SetGate(VectorKeyboard, isrKeyboardAddr())

	ptr := Pointer{
		Limit: uint16(unsafe.Sizeof(table) - 1),
		Base:  uint64(uintptr(unsafe.Pointer(&table))),
	}
	lidt(&ptr)
}

// dispatchFromISR is called by each trampoline in isr_amd64.s after it
// has reconstructed a Frame from the interrupt stack. It is the only
// point where the hand-written assembly hands control back into Go.
func dispatchFromISR(vector uint8, errorCode, rip, cr2 uint64) {
	active.Dispatch(Frame{Vector: vector, ErrorCode: errorCode, RIP: rip, CR2: cr2})
}

//go:noescape
func lidt(ptr *Pointer)

// isr*Addr return the linear address of the correspondingly named
// trampoline in isr_amd64.s, each of which saves the interrupt frame,
// calls dispatchFromISR with the right vector number and constants, and
// iretq's back out. SetGate takes the returned value as a plain uint64
// handler offset.
//
//go:noescape
func isrDivideByZeroAddr() uint64

//go:noescape
func isrInvalidOpcodeAddr() uint64

//go:noescape
func isrDoubleFaultAddr() uint64

//go:noescape
func isrGPFaultAddr() uint64

//go:noescape
func isrPageFaultAddr() uint64

//go:noescape
func isrTimerAddr() uint64

//go:noescape
func isrKeyboardAddr() uint64

//go:noescape
func isrUnhandledAddr() uint64
