// Package shell implements the kernel's interactive command line: a
// fixed grammar of single-word commands with at most one argument, a
// 128-byte line editor with 16-entry history, and the handlers for
// each of the 12 built-in commands.
package shell

import "strings"

// Command names this shell recognizes.
const (
	CmdHelp    = "help"
	CmdEcho    = "echo"
	CmdClear   = "clear"
	CmdHistory = "history"
	CmdMem     = "mem"
	CmdTicks   = "ticks"
	CmdLs      = "ls"
	CmdCat     = "cat"
	CmdStat    = "stat"
	CmdPanic   = "panic"
	CmdHalt    = "halt"
	CmdReboot  = "reboot"
)

// noArgCommands require an empty argument.
var noArgCommands = map[string]bool{
	CmdHelp: true, CmdClear: true, CmdHistory: true, CmdMem: true,
	CmdTicks: true, CmdPanic: true, CmdHalt: true, CmdReboot: true,
}

// requiredArgCommands require a non-empty argument.
var requiredArgCommands = map[string]bool{
	CmdEcho: true, CmdCat: true, CmdStat: true,
}

// ParsedLine is one successfully parsed command invocation.
type ParsedLine struct {
	Cmd string
	Arg string
}

// ParseLine returns a zero-value ParsedLine and ok=false for a line with
// no command, a misused argument, or a token this shell doesn't
// recognize.
func ParseLine(line string) (ParsedLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParsedLine{}, false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch {
	case noArgCommands[cmd]:
		if arg != "" {
			return ParsedLine{}, false
		}
	case requiredArgCommands[cmd]:
		if arg == "" {
			return ParsedLine{}, false
		}
	case cmd == CmdLs:
		if arg == "" {
			arg = "/"
		}
	default:
		return ParsedLine{}, false
	}

	return ParsedLine{Cmd: cmd, Arg: arg}, true
}
