package main

import (
	"fmt"
	"os"
)

// stdoutConsole is a console.Writer backed by the host terminal, used by
// cmd/replsim to drive the real shell package without any VGA/PIO
// hardware underneath it.
type stdoutConsole struct{}

func (stdoutConsole) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdoutConsole) Clear() error {
	fmt.Print("\033[2J\033[H")
	return nil
}

func (stdoutConsole) Backspace() {
	fmt.Print("\b \b")
}
