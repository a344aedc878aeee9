// Package ioport is the single polymorphic hardware edge below the PIC,
// PIT, keyboard decoder and ATA driver: every privileged I/O instruction
// those packages need goes through the Ports interface instead of inline
// assembly scattered across the tree.
package ioport

// Ports is the capability a driver needs to talk to legacy PC hardware:
// byte/word reads and writes on I/O ports, and the two instructions that
// gate interrupt delivery.
type Ports interface {
	In8(port uint16) uint8
	Out8(port uint16, value uint8)
	In16(port uint16) uint16
	Out16(port uint16, value uint16)

	// DisableInterrupts masks maskable interrupts and returns whether they
	// were enabled beforehand, so the caller can restore the prior state.
	DisableInterrupts() (wasEnabled bool)
	// EnableInterrupts unmasks maskable interrupts unconditionally.
	EnableInterrupts()
	// RestoreInterrupts re-enables interrupts only if wasEnabled is true.
	RestoreInterrupts(wasEnabled bool)
}

// Delay writes a byte to port 0x80, an unused POST-diagnostic port used
// since the PC/AT as a cheap one-I/O-cycle delay between back-to-back
// port writes (PIC/PIT programming sequences rely on this).
func Delay(p Ports) {
	p.Out8(0x80, 0)
}
