package hex

import (
	"strings"
	"testing"
)

func TestFormatQuad(t *testing.T) {
	var b strings.Builder
	FormatQuad(&b, 0xDEAD0000)
	if got, want := b.String(), "00000000DEAD0000"; got != want {
		t.Fatalf("FormatQuad = %q, want %q", got, want)
	}
}

func TestQuad(t *testing.T) {
	if got, want := Quad(0x1000), "0x0000000000001000"; got != want {
		t.Fatalf("Quad = %q, want %q", got, want)
	}
}

func TestFormatByte(t *testing.T) {
	var b strings.Builder
	FormatByte(&b, 0xA5)
	if got, want := b.String(), "A5"; got != want {
		t.Fatalf("FormatByte = %q, want %q", got, want)
	}
}

func TestFormatBytesSpaced(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, []byte{0x01, 0xFF})
	if got, want := b.String(), "01 FF "; got != want {
		t.Fatalf("FormatBytes = %q, want %q", got, want)
	}
}

func TestFormatDecimal(t *testing.T) {
	var b strings.Builder
	FormatDecimal(&b, 7)
	if got, want := b.String(), "7"; got != want {
		t.Fatalf("FormatDecimal(7) = %q, want %q", got, want)
	}
}
