// Package ata implements the primary-channel ATA PIO driver: 28-bit LBA
// reads against the legacy 0x1F0-0x1F7 port range, the only storage
// path this kernel has below SimpleFs.
package ata

import (
	"github.com/justeres/eres-os/block"
	"github.com/justeres/eres-os/ioport"
)

const (
	portData        = 0x1F0
	portSectorCount = 0x1F2
	portLBALow      = 0x1F3
	portLBAMid      = 0x1F4
	portLBAHigh     = 0x1F5
	portDriveHead   = 0x1F6
	portStatus      = 0x1F7
	portCommand     = 0x1F7

	cmdReadSectors = 0x20

	statusBSY = 0x80
	statusDRQ = 0x08
	statusDF  = 0x20
	statusERR = 0x01

	// driveSelectBase sets the always-one reserved bits (0xA0) plus LBA
	// mode (0x40); the low nibble carries LBA[27:24]. Master drive only
	// (bit 0x10 clear) — this kernel never addresses a slave device.
	driveSelectBase = 0xE0

	maxLBA = 0x0FFF_FFFF

	// StatusPollLimit bounds how many times the status port is polled
	// waiting for BSY to clear before a read fails with ErrTimeout.
	StatusPollLimit = 100_000
)

// Drive is the primary-channel ATA PIO driver.
type Drive struct {
	ports ioport.Ports
}

// New wraps ports as a primary-channel ATA drive.
func New(ports ioport.Ports) *Drive {
	return &Drive{ports: ports}
}

// SectorSize always returns 512: this driver speaks nothing else.
func (d *Drive) SectorSize() int {
	return block.DefaultSectorSize
}

// ReadSector reads the 512-byte sector at lba using 28-bit LBA PIO mode.
func (d *Drive) ReadSector(lba uint64, out []byte) error {
	if len(out) != block.DefaultSectorSize {
		return block.ErrInvalidBufferSize
	}
	if lba > maxLBA {
		return block.ErrUnsupported
	}

	d.ports.Out8(portDriveHead, driveSelectBase|uint8((lba>>24)&0x0F))
	d.ports.Out8(portSectorCount, 1)
	d.ports.Out8(portLBALow, uint8(lba&0xFF))
	d.ports.Out8(portLBAMid, uint8((lba>>8)&0xFF))
	d.ports.Out8(portLBAHigh, uint8((lba>>16)&0xFF))
	d.ports.Out8(portCommand, cmdReadSectors)

	if err := d.waitReady(); err != nil {
		return err
	}

	for i := 0; i < block.DefaultSectorSize/2; i++ {
		word := d.ports.In16(portData)
		out[i*2] = byte(word & 0xFF)
		out[i*2+1] = byte(word >> 8)
	}
	return nil
}

// waitReady polls the status port until BSY clears and DRQ sets, or
// ERR/DF is reported, or the poll budget is exhausted.
func (d *Drive) waitReady() error {
	for i := 0; i < StatusPollLimit; i++ {
		status := d.ports.In8(portStatus)
		if status&statusBSY != 0 {
			continue
		}
		if status&(statusERR|statusDF) != 0 {
			return block.ErrDeviceFault
		}
		if status&statusDRQ != 0 {
			return nil
		}
	}
	return block.ErrTimeout
}
