// Package pic remaps and controls the legacy 8259A Programmable Interrupt
// Controller pair: master at 0x20/0x21, slave at 0xA0/0xA1.
package pic

import "github.com/justeres/eres-os/ioport"

const (
	masterCommand = 0x20
	masterData    = 0x21
	slaveCommand  = 0xA0
	slaveData     = 0xA1

	icw1Init = 0x11 // ICW1: edge-triggered, cascade, ICW4 needed
	icw4Mode = 0x01 // ICW4: 8086/8088 mode

	// MasterOffset and SlaveOffset are the vectors the remap installs:
	// IRQ0..7 land on 0x20..0x27, IRQ8..15 on 0x28..0x2F.
	MasterOffset uint8 = 0x20
	SlaveOffset  uint8 = 0x28

	eoiCommand = 0x20
)

// PIC controls both cascaded 8259A chips through a Ports capability.
type PIC struct {
	ports ioport.Ports
}

// New wraps ports as a PIC controller.
func New(ports ioport.Ports) *PIC {
	return &PIC{ports: ports}
}

// Remap reprograms both PICs to deliver IRQ0..7 on vectors MasterOffset..
// MasterOffset+7 and IRQ8..15 on SlaveOffset..SlaveOffset+7, preserving the
// existing interrupt masks across the reprogram.
func (p *PIC) Remap() {
	masterMask := p.ports.In8(masterData)
	slaveMask := p.ports.In8(slaveData)

	p.ports.Out8(masterCommand, icw1Init)
	ioport.Delay(p.ports)
	p.ports.Out8(slaveCommand, icw1Init)
	ioport.Delay(p.ports)

	p.ports.Out8(masterData, MasterOffset)
	ioport.Delay(p.ports)
	p.ports.Out8(slaveData, SlaveOffset)
	ioport.Delay(p.ports)

	p.ports.Out8(masterData, 4) // ICW3: slave attached on IRQ2
	ioport.Delay(p.ports)
	p.ports.Out8(slaveData, 2) // ICW3: slave's cascade identity
	ioport.Delay(p.ports)

	p.ports.Out8(masterData, icw4Mode)
	ioport.Delay(p.ports)
	p.ports.Out8(slaveData, icw4Mode)
	ioport.Delay(p.ports)

	p.ports.Out8(masterData, masterMask)
	p.ports.Out8(slaveData, slaveMask)
}

// SetMasks installs the final interrupt masks directly.
func (p *PIC) SetMasks(master, slave uint8) {
	p.ports.Out8(masterData, master)
	p.ports.Out8(slaveData, slave)
}

// SendEOI acknowledges irq (0..15, master-relative: irq>=8 is on the
// slave). The slave always also requires an EOI on the master, since it
// is cascaded through master IRQ2.
func (p *PIC) SendEOI(irq uint8) {
	if irq >= 8 {
		p.ports.Out8(slaveCommand, eoiCommand)
	}
	p.ports.Out8(masterCommand, eoiCommand)
}
