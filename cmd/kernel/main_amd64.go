//go:build amd64 && freestanding

// Command kernel is the freestanding entry point: it wires every
// subsystem package in this module into the boot sequence (boot-info
// validation, memory bring-up, IDT/PIC/PIT bring-up, interrupts on, then
// the shell loop over the keyboard ring).
// It is never built by a hosted `go build` — there is no OS underneath
// it to link against; a freestanding/amd64 cross toolchain builds it
// against a linker script and the two-stage boot loader this module
// treats as an external collaborator.
package main

import (
	"github.com/justeres/eres-os/block/ata"
	"github.com/justeres/eres-os/block/cache"
	"github.com/justeres/eres-os/bootinfo"
	"github.com/justeres/eres-os/console"
	"github.com/justeres/eres-os/fs/simplefs"
	"github.com/justeres/eres-os/ioport"
	"github.com/justeres/eres-os/irq/idt"
	"github.com/justeres/eres-os/irq/keyboard"
	"github.com/justeres/eres-os/irq/pic"
	"github.com/justeres/eres-os/irq/pit"
	"github.com/justeres/eres-os/kconfig"
	"github.com/justeres/eres-os/klog"
	"github.com/justeres/eres-os/mem/frame"
	"github.com/justeres/eres-os/mem/heap"
	"github.com/justeres/eres-os/shell"
	"github.com/justeres/eres-os/vfs"
)

// frameAdapter satisfies shell.FrameAllocator over a *frame.Allocator.
// frame.Stats and shell.MemStats share a field layout but are distinct
// named types, so the conversion needs this one line rather than a bare
// method-set match.
type frameAdapter struct{ a *frame.Allocator }

func (f frameAdapter) Stats() shell.MemStats {
	s := f.a.Stats()
	return shell.MemStats{
		TotalFrames:     s.TotalFrames,
		AllocatedFrames: s.AllocatedFrames,
		FreeFrames:      s.FreeFrames,
	}
}

// haltController implements shell.Halter over the real port-I/O edge.
type haltController struct{ ports ioport.Ports }

func (h haltController) Halt() {
	h.ports.DisableInterrupts()
	for {
		hltLoop()
	}
}

func (h haltController) Reboot() {
	h.ports.DisableInterrupts()
	h.ports.Out8(0x64, 0xFE) // keyboard-controller reset
	for {
		hltLoop()
	}
}

// faultTrigger implements shell.Faulter by executing ud2.
type faultTrigger struct{}

func (faultTrigger) Fault() { triggerUD2() }

//go:noescape
func hltLoop()

//go:noescape
func triggerUD2()

// kernelMain is called once by the assembly entry stub after long mode,
// paging and the stack are established. bootInfoPtr is the physical
// address the second-stage loader left the BootInfoRecord at.
func kernelMain(bootInfoPtr uintptr) {
	bootinfo.Register(bootInfoPtr)

	debugConsole := console.NewDebugWriter(ioport.Default)
	vgaConsole := console.NewPhysicalVGAWriter()
	bootConsole := console.NewMultiWriter(vgaConsole, debugConsole)
	logger := klog.Default(bootConsole, false)

	view, err := bootinfo.Current()
	if err != nil {
		logger.Error("boot info validation failed", "error", err)
		haltController{ports: ioport.Default}.Halt()
	}

	cfg := kconfig.DefaultConfig()

	heapArena := heap.New(cfg.HeapBytes)
	heapArena.Init()

	frameAllocator := frame.New(view.Entries, ioport.Default)

	picController := pic.New(ioport.Default)
	picController.Remap()

	pitTimer := pit.New(ioport.Default)
	pitTimer.Program(cfg.PitHz)

	keyRing := &keyboard.Ring{}
	keyDecoder := keyboard.NewDecoder(keyRing)

	dispatcher := &idt.Dispatcher{
		Console:  bootConsole,
		Ticker:   pitTimer,
		Feeder:   keyDecoder,
		EOI:      picController,
		Keyboard: ioport.Default,
		Halt:     func() { haltController{ports: ioport.Default}.Halt() },
	}
	idt.Install(dispatcher)

	picController.SetMasks(0xFC, 0xFF) // unmask IRQ0 (timer), IRQ1 (keyboard)
	ioport.Default.EnableInterrupts()

	ataDrive := ata.New(ioport.Default)
	cachedDisk := cache.New(ataDrive, cfg.CacheCapacity)

	sh := shell.New()
	sh.Console = vgaConsole
	sh.Frame = frameAdapter{a: frameAllocator}
	sh.Ticker = pitTimer
	sh.Halt = haltController{ports: ioport.Default}
	sh.Fault = faultTrigger{}
	sh.Mount = func() (vfs.Filesystem, error) { return simplefs.Mount(cachedDisk) }

	logger.Info("Eres OS booted")
	_, _ = vgaConsole.Write([]byte("Eres OS\n" + shell.Prompt))

	for {
		ev, ok := keyRing.TryRead(ioport.Default)
		if !ok {
			continue
		}
		sh.Feed(ev)
	}
}
