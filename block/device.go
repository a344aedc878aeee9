// Package block defines the capability every storage backend in this
// kernel is accessed through: a fixed sector size and a single
// read-sector operation, so ATA PIO, the LRU cache in front of it, and
// SimpleFs above that all share one narrow interface.
package block

import "errors"

// DefaultSectorSize is the sector size every implementation in this
// module uses.
const DefaultSectorSize = 512

// Device is a read-only block device addressed by logical block address.
type Device interface {
	// SectorSize returns the fixed size, in bytes, every ReadSector
	// call's out buffer must match exactly.
	SectorSize() int
	// ReadSector fills out with the contents of sector lba. len(out)
	// must equal SectorSize(); otherwise ErrInvalidBufferSize.
	ReadSector(lba uint64, out []byte) error
}

var (
	// ErrInvalidBufferSize is returned when out's length doesn't match
	// SectorSize().
	ErrInvalidBufferSize = errors.New("block: invalid buffer size")
	// ErrDeviceFault is returned when the device itself reports an
	// error condition (ATA ERR/DF status bits).
	ErrDeviceFault = errors.New("block: device fault")
	// ErrTimeout is returned when a bounded poll loop exhausts its
	// iteration budget without the device becoming ready.
	ErrTimeout = errors.New("block: timeout")
	// ErrUnsupported is returned for requests outside what the device
	// can address (e.g. an LBA beyond 28-bit range).
	ErrUnsupported = errors.New("block: unsupported")
)
