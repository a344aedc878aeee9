package shell

import (
	"strconv"
	"strings"

	"github.com/justeres/eres-os/console"
	"github.com/justeres/eres-os/irq/keyboard"
	"github.com/justeres/eres-os/vfs"
)

// Prompt is printed after every executed command and at boot.
const Prompt = "> "

// MemStats mirrors mem/frame.Stats' shape; the "mem" command reports
// these three counters regardless of which allocator produced them.
type MemStats struct {
	TotalFrames     uint64
	AllocatedFrames uint64
	FreeFrames      uint64
}

// FrameAllocator is the capability the "mem" command reports on,
// satisfied by mem/frame.Allocator through a one-line adapter at the
// kernel entry point (mem/frame.Stats has the identical field set but
// is a distinct named type, so it is not directly interface-compatible).
type FrameAllocator interface {
	Stats() MemStats
}

// Ticker is satisfied by irq/pit.PIT.
type Ticker interface {
	Ticks() uint64
}

// Halter performs a halt-forever or reboot sequence. Never returns in
// production; tests substitute a recording stub.
type Halter interface {
	Halt()
	Reboot()
}

// Faulter triggers the illegal-opcode exception path for the "panic"
// command. Never returns in production.
type Faulter interface {
	Fault()
}

// Shell holds the line editor and every collaborator its commands need.
type Shell struct {
	Console console.Writer
	Frame   FrameAllocator
	Ticker  Ticker
	Halt    Halter
	Fault   Faulter
	Mount   func() (vfs.Filesystem, error)

	line *LineEditor
}

// New builds a ready Shell. All collaborator fields may be left nil if
// the corresponding commands are never exercised (e.g. in a unit test
// that only cares about "echo").
func New() *Shell {
	return &Shell{line: NewLineEditor()}
}

// Feed processes one keyboard event: updates the line buffer, echoes
// the visible effect to Console, and on Enter executes the committed
// command.
func (s *Shell) Feed(ev keyboard.Event) {
	switch ev.Kind {
	case keyboard.Char:
		if s.line.PutChar(ev.Char) {
			_, _ = s.Console.Write([]byte{ev.Char})
		}
	case keyboard.Backspace:
		if s.line.Backspace() {
			s.Console.Backspace()
		}
	case keyboard.Enter:
		console.WriteLine(s.Console, "")
		line := s.line.Commit()
		s.execute(line)
		console.WriteLine(s.Console, "")
		_, _ = s.Console.Write([]byte(Prompt))
	case keyboard.Up:
		s.line.Up()
		s.redraw()
	case keyboard.Down:
		s.line.Down()
		s.redraw()
	}
}

// redraw is a crude but correct re-render of the current buffer: this
// console model has no way to erase a partial line in place, so each
// Up/Down instead writes a newline, the prompt, and the recalled text,
// trading a little visual noise for a redraw that cannot drift from the
// buffer's real contents.
func (s *Shell) redraw() {
	console.WriteLine(s.Console, "")
	_, _ = s.Console.Write([]byte(Prompt))
	_, _ = s.Console.Write([]byte(s.line.Text()))
}

func (s *Shell) execute(line string) {
	parsed, ok := ParseLine(line)
	if !ok {
		if strings.TrimSpace(line) != "" {
			console.WriteLine(s.Console, "unknown command")
		}
		return
	}

	switch parsed.Cmd {
	case CmdHelp:
		console.WriteLine(s.Console, "commands: help echo clear history mem ticks ls cat stat panic halt reboot")
	case CmdEcho:
		console.WriteLine(s.Console, parsed.Arg)
	case CmdClear:
		_ = s.Console.Clear()
	case CmdHistory:
		for _, h := range s.line.History() {
			console.WriteLine(s.Console, h)
		}
	case CmdMem:
		s.cmdMem()
	case CmdTicks:
		s.cmdTicks()
	case CmdLs:
		s.cmdLs(parsed.Arg)
	case CmdCat:
		s.cmdCat(parsed.Arg)
	case CmdStat:
		s.cmdStat(parsed.Arg)
	case CmdPanic:
		if s.Fault != nil {
			s.Fault.Fault()
		}
	case CmdHalt:
		console.WriteLine(s.Console, "halting")
		if s.Halt != nil {
			s.Halt.Halt()
		}
	case CmdReboot:
		console.WriteLine(s.Console, "rebooting")
		if s.Halt != nil {
			s.Halt.Reboot()
		}
	}
}

func (s *Shell) cmdMem() {
	if s.Frame == nil {
		console.WriteLine(s.Console, "frame allocator not initialized")
		return
	}
	stats := s.Frame.Stats()
	console.WriteLine(s.Console, "total="+strconv.FormatUint(stats.TotalFrames, 10)+
		" allocated="+strconv.FormatUint(stats.AllocatedFrames, 10)+
		" free="+strconv.FormatUint(stats.FreeFrames, 10))
}

func (s *Shell) cmdTicks() {
	var ticks uint64
	if s.Ticker != nil {
		ticks = s.Ticker.Ticks()
	}
	console.WriteLine(s.Console, "ticks="+strconv.FormatUint(ticks, 10))
}

func (s *Shell) mountFS() (vfs.Filesystem, error) {
	if s.Mount == nil {
		return nil, vfs.ErrNotFound
	}
	return s.Mount()
}

func (s *Shell) cmdLs(path string) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fs, err := s.mountFS()
	if err != nil {
		console.WriteLine(s.Console, "ls: "+err.Error())
		return
	}
	node, err := vfs.ResolvePath(fs, path)
	if err != nil {
		console.WriteLine(s.Console, "ls: "+err.Error())
		return
	}
	meta, err := fs.Metadata(node)
	if err != nil {
		console.WriteLine(s.Console, "ls: "+err.Error())
		return
	}
	if meta.Kind != vfs.Directory {
		console.WriteLine(s.Console, "ls: "+vfs.ErrNotDirectory.Error())
		return
	}
	entries, err := fs.List(node)
	if err != nil {
		console.WriteLine(s.Console, "ls: "+err.Error())
		return
	}
	if len(entries) == 0 {
		console.WriteLine(s.Console, "(empty)")
		return
	}
	for _, e := range entries {
		console.WriteLine(s.Console, e.Name)
	}
}

func (s *Shell) cmdCat(path string) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fs, err := s.mountFS()
	if err != nil {
		console.WriteLine(s.Console, "cat: "+err.Error())
		return
	}
	node, err := vfs.ResolvePath(fs, path)
	if err != nil {
		console.WriteLine(s.Console, "cat: "+err.Error())
		return
	}
	meta, err := fs.Metadata(node)
	if err != nil {
		console.WriteLine(s.Console, "cat: "+err.Error())
		return
	}
	if meta.Kind != vfs.File {
		console.WriteLine(s.Console, "cat: "+vfs.ErrNotFile.Error())
		return
	}
	buf := make([]byte, meta.Size)
	n, err := fs.Read(node, 0, buf)
	if err != nil {
		console.WriteLine(s.Console, "cat: "+err.Error())
		return
	}
	_, _ = s.Console.Write(buf[:n])
	if n == 0 || buf[n-1] != '\n' {
		console.WriteLine(s.Console, "")
	}
}

func (s *Shell) cmdStat(path string) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fs, err := s.mountFS()
	if err != nil {
		console.WriteLine(s.Console, "stat: "+err.Error())
		return
	}
	node, err := vfs.ResolvePath(fs, path)
	if err != nil {
		console.WriteLine(s.Console, "stat: "+err.Error())
		return
	}
	meta, err := fs.Metadata(node)
	if err != nil {
		console.WriteLine(s.Console, "stat: "+err.Error())
		return
	}
	kind := "file"
	if meta.Kind == vfs.Directory {
		kind = "directory"
	}
	console.WriteLine(s.Console, "type="+kind+" size="+strconv.FormatUint(meta.Size, 10))
}
