// Package frame implements the bump-style physical frame allocator: a
// monotonic cursor over the usable regions of the firmware memory map.
// Frames are created by the allocator and never destroyed.
package frame

import (
	"github.com/justeres/eres-os/bootinfo"
	"github.com/justeres/eres-os/ioport"
)

// MinAllocatableAddr is the lowest physical address the allocator will
// ever hand out, keeping the kernel out of the low-memory region reserved
// for real-mode structures, the boot loader stages and the BDA/EBDA.
const MinAllocatableAddr uint64 = 0x20_0000

// FrameSize is the allocator's fixed granule.
const FrameSize uint64 = 4096

// PhysicalFrame is a 4096-byte aligned physical address.
type PhysicalFrame struct {
	Start uint64
}

type region struct {
	base, end uint64
}

// Allocator is the process-wide bump allocator. The zero value is not
// ready; construct with New.
type Allocator struct {
	regions []region

	regionIndex int
	nextAddr    uint64
	regionEnd   uint64

	totalFrames     uint64
	allocatedFrames uint64

	ports ioport.Ports
}

// New builds an Allocator over the usable ("type == 1") regions of
// entries, clipped to MinAllocatableAddr, in the order they appear in the
// firmware memory map. ports is used only to bracket the allocation
// critical section with interrupts disabled.
func New(entries []bootinfo.MemoryMapEntry, ports ioport.Ports) *Allocator {
	a := &Allocator{ports: ports}
	for _, e := range entries {
		if e.Type != bootinfo.UsableRAM || e.Length == 0 {
			continue
		}
		base := e.Base
		end := saturatingAdd(e.Base, e.Length)
		if base < MinAllocatableAddr {
			base = MinAllocatableAddr
		}
		if base >= end {
			continue
		}
		a.regions = append(a.regions, region{base: base, end: end})
		a.totalFrames += (end - base) / FrameSize
	}
	if len(a.regions) > 0 {
		a.nextAddr = alignUp(a.regions[0].base, FrameSize)
		a.regionEnd = a.regions[0].end
	}
	return a
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

// Alloc returns the next unused PhysicalFrame, or false if every usable
// region is exhausted. Disables interrupts around the cursor mutation: the
// same cursor can in principle be touched by both mainline code and an
// interrupt handler, even though the current core never allocates from
// interrupt context.
func (a *Allocator) Alloc() (PhysicalFrame, bool) {
	wasEnabled := a.ports.DisableInterrupts()
	defer a.ports.RestoreInterrupts(wasEnabled)
	return a.allocLocked()
}

func (a *Allocator) allocLocked() (PhysicalFrame, bool) {
	for a.regionIndex < len(a.regions) {
		if a.nextAddr+FrameSize <= a.regionEnd {
			start := a.nextAddr
			a.nextAddr += FrameSize
			a.allocatedFrames++
			return PhysicalFrame{Start: start}, true
		}
		a.regionIndex++
		if a.regionIndex < len(a.regions) {
			a.nextAddr = alignUp(a.regions[a.regionIndex].base, FrameSize)
			a.regionEnd = a.regions[a.regionIndex].end
		}
	}
	return PhysicalFrame{}, false
}

// Stats returns the counters the "mem" shell command reports.
type Stats struct {
	TotalFrames     uint64
	AllocatedFrames uint64
	FreeFrames      uint64
}

// Stats reads the allocator's counters. Does not take the interrupt-disable
// lock: it only reads monotonically-increasing counters, and a torn read
// is at worst one frame stale.
func (a *Allocator) Stats() Stats {
	return Stats{
		TotalFrames:     a.totalFrames,
		AllocatedFrames: a.allocatedFrames,
		FreeFrames:      a.totalFrames - a.allocatedFrames,
	}
}
