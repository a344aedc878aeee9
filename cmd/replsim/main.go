/*
 * Eres OS - host-side shell development harness.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Command replsim runs the kernel's shell package over a real host tty
// via github.com/peterh/liner, for exercising the command grammar and an
// ERESFS1 image without booting the freestanding kernel binary under
// QEMU.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	"github.com/peterh/liner"

	"github.com/justeres/eres-os/block/cache"
	"github.com/justeres/eres-os/fs/simplefs"
	"github.com/justeres/eres-os/irq/keyboard"
	"github.com/justeres/eres-os/kconfig"
	"github.com/justeres/eres-os/shell"
	"github.com/justeres/eres-os/vfs"
)

type haltSignal struct{}

func (haltSignal) Halt()   { os.Exit(0) }
func (haltSignal) Reboot() { os.Exit(0) }

type faultSignal struct{}

func (faultSignal) Fault() { fmt.Println("(panic: ud2 would fire here under a real kernel)") }

func main() {
	optImage := getopt.StringLong("image", 'i', "", "ERESFS1 image to mount")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := kconfig.DefaultConfig()

	sh := shell.New()
	sh.Console = stdoutConsole{}
	sh.Halt = haltSignal{}
	sh.Fault = faultSignal{}

	if *optImage != "" {
		dev, err := loadImage(*optImage)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cached := cache.New(dev, cfg.CacheCapacity)
		sh.Mount = func() (vfs.Filesystem, error) { return simplefs.Mount(cached) }
	}

	runRepl(sh)
}

func runRepl(sh *shell.Shell) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Print(shell.Prompt)
	for {
		command, err := line.Prompt("")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("replsim: error reading line: " + err.Error())
			return
		}
		line.AppendHistory(command)
		feedLine(sh, command)
	}
}

// feedLine drives sh through its real keyboard.Event grammar one byte at
// a time, so replsim exercises the exact Shell.Feed path the freestanding
// kernel does rather than calling any unexported shortcut.
func feedLine(sh *shell.Shell, command string) {
	for i := 0; i < len(command); i++ {
		sh.Feed(keyboard.Event{Kind: keyboard.Char, Char: command[i]})
	}
	sh.Feed(keyboard.Event{Kind: keyboard.Enter})
}
