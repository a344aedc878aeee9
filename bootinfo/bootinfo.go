// Package bootinfo validates and exposes the BootInfoRecord the second
// stage boot loader hands the kernel entry point: the process-wide
// pointer publication uses release/acquire ordering because the pointer
// is written once from mainline boot code and later read by code that may
// run concurrently with early interrupt setup.
package bootinfo

import (
	"errors"
	"sync/atomic"
	"unsafe"
)

const (
	magicConstant  uint32 = 0x534F5245
	supportedVersion uint32 = 1
)

// MemoryMapEntry describes one BIOS/UEFI-style memory map region.
type MemoryMapEntry struct {
	Base      uint64
	Length    uint64
	Type      uint32
	ACPIAttr  uint32
}

// UsableRAM is the MemoryMapEntry.Type value meaning "usable RAM".
const UsableRAM uint32 = 1

// Record mirrors the loader-provided BootInfoRecord layout exactly:
// magic, version, entry_count, entry_size, entry_ptr, plus reserved
// padding the kernel never reads.
type Record struct {
	Magic      uint32
	Version    uint32
	EntryCount uint32
	EntrySize  uint32
	EntryPtr   uintptr
	_reserved  [8]byte
}

var (
	errNilPointer     = errors.New("bootinfo: nil pointer")
	errBadMagic       = errors.New("bootinfo: bad magic")
	errBadVersion     = errors.New("bootinfo: unsupported version")
	errBadEntrySize   = errors.New("bootinfo: entry size mismatch")
	errNilEntryTable  = errors.New("bootinfo: non-empty entry count with nil entry pointer")
)

// published holds the boot-info pointer the loader handed the kernel.
// Stored/loaded with release/acquire ordering via atomic.Uintptr so that
// everything register_boot_info's caller wrote to the record before the
// call is visible to anyone who later observes a non-zero value here.
var published atomic.Uintptr

// Register stores ptr as the process-wide boot-info pointer. Called
// exactly once, by the kernel entry point, before interrupts are enabled.
func Register(ptr uintptr) {
	published.Store(ptr)
}

// View is the validated, read-only surface over a Record: a bounded
// sequence of MemoryMapEntry, plus the raw record for diagnostics.
type View struct {
	Record  Record
	Entries []MemoryMapEntry
}

// Current loads the published boot-info pointer and returns a validated
// View, or an error describing why validation failed. The record is never
// mutated by the kernel after this call.
func Current() (*View, error) {
	ptr := published.Load()
	return validate(ptr)
}

func validate(ptr uintptr) (*View, error) {
	if ptr == 0 {
		return nil, errNilPointer
	}
	rec := *(*Record)(unsafe.Pointer(ptr))
	return validateRecord(rec)
}

func validateRecord(rec Record) (*View, error) {
	if rec.Magic != magicConstant {
		return nil, errBadMagic
	}
	if rec.Version != supportedVersion {
		return nil, errBadVersion
	}
	const entrySize = uint32(unsafe.Sizeof(MemoryMapEntry{}))
	if rec.EntrySize != entrySize {
		return nil, errBadEntrySize
	}
	if rec.EntryCount > 0 && rec.EntryPtr == 0 {
		return nil, errNilEntryTable
	}

	entries := make([]MemoryMapEntry, rec.EntryCount)
	if rec.EntryCount > 0 {
		src := unsafe.Slice((*MemoryMapEntry)(unsafe.Pointer(rec.EntryPtr)), rec.EntryCount)
		copy(entries, src)
	}
	return &View{Record: rec, Entries: entries}, nil
}

// ValidateForTest exercises the same validation Current uses, without
// going through the published atomic pointer or unsafe memory access —
// the host-testable entry point for bootinfo's invariants.
func ValidateForTest(rec Record, entries []MemoryMapEntry) (*View, error) {
	if rec.Magic != magicConstant {
		return nil, errBadMagic
	}
	if rec.Version != supportedVersion {
		return nil, errBadVersion
	}
	const entrySize = uint32(unsafe.Sizeof(MemoryMapEntry{}))
	if rec.EntrySize != entrySize {
		return nil, errBadEntrySize
	}
	if rec.EntryCount > 0 && rec.EntryPtr == 0 {
		return nil, errNilEntryTable
	}
	if uint32(len(entries)) != rec.EntryCount {
		return nil, errors.New("bootinfo: entries slice length does not match entry_count")
	}
	return &View{Record: rec, Entries: append([]MemoryMapEntry(nil), entries...)}, nil
}
