// Package pit programs PIT channel 0 (the 8253/8254 Programmable Interval
// Timer) to a fixed frequency and counts ticks delivered via its IRQ.
package pit

import (
	"sync/atomic"

	"github.com/justeres/eres-os/ioport"
)

const (
	channel0Data = 0x40
	commandPort  = 0x43

	// BaseFrequency is the PIT's crystal-derived input frequency.
	BaseFrequency = 1_193_182

	// modeCommand selects channel 0, lo/hi access, mode 3 (square wave).
	modeCommand = 0x36
)

// PIT owns the process-wide tick counter. Construct once at boot.
type PIT struct {
	ports ioport.Ports
	ticks atomic.Uint64
}

// New wraps ports as a PIT driver.
func New(ports ioport.Ports) *PIT {
	return &PIT{ports: ports}
}

// Program sets channel 0 to fire at hz, by computing the 16-bit divisor
// BaseFrequency/hz and writing it lo-byte then hi-byte.
func (p *PIT) Program(hz uint32) {
	divisor := uint16(BaseFrequency / hz)
	p.ports.Out8(commandPort, modeCommand)
	p.ports.Out8(channel0Data, uint8(divisor&0xFF))
	p.ports.Out8(channel0Data, uint8(divisor>>8))
}

// OnTick increments the tick counter. Called from the timer IRQ handler;
// relaxed ordering suffices since only monotonicity is required.
func (p *PIT) OnTick() {
	p.ticks.Add(1)
}

// Ticks reads the current tick count.
func (p *PIT) Ticks() uint64 {
	return p.ticks.Load()
}
