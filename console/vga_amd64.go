//go:build amd64 && freestanding

package console

import "unsafe"

const vgaPhysAddr = 0xB8000

// NewPhysicalVGAWriter maps the real VGA text-mode framebuffer at physical
// address 0xB8000 as a 2000-cell buffer. Valid only after the boot identity
// map covers that address (it does: 0xB8000 falls in the first 2 MiB page,
// always mapped per mem/vmm's boot-time identity view).
func NewPhysicalVGAWriter() *VGAWriter {
	cells := unsafe.Slice((*uint16)(unsafe.Pointer(uintptr(vgaPhysAddr))), vgaCellCount)
	return NewVGAWriter(cells)
}
