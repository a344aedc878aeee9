// Package keyboard decodes PS/2 Set-1 scancodes from a German QWERTZ
// keyboard into line-editor events, and carries them from the keyboard
// IRQ handler to the shell over a lock-free SPSC ring.
package keyboard

const (
	scanE0Prefix     = 0xE0
	scanShiftLeft    = 0x2A
	scanShiftRight   = 0x36
	scanShiftLeftBrk = 0xAA
	scanShiftRightBr = 0xB6
	scanEnter        = 0x1C
	scanBackspace    = 0x0E
	scanArrowUp      = 0x48
	scanArrowDown    = 0x50

	releaseBit = 0x80
)

// Decoder turns a stream of raw scancode bytes into Events, pushed onto a
// Ring. One Decoder per keyboard; holds the e0-prefix and shift latches.
type Decoder struct {
	ring     *Ring
	e0Prefix bool
	shift    bool
}

// NewDecoder returns a Decoder feeding ring.
func NewDecoder(ring *Ring) *Decoder {
	return &Decoder{ring: ring}
}

// Feed processes one raw scancode byte, as read from port 0x60 by the
// keyboard IRQ handler.
func (d *Decoder) Feed(b byte) {
	if b == scanE0Prefix {
		d.e0Prefix = true
		return
	}

	if d.e0Prefix {
		d.e0Prefix = false
		if b&releaseBit != 0 {
			return // release of an extended key, drop
		}
		switch b {
		case scanArrowUp:
			d.push(Event{Kind: Up})
		case scanArrowDown:
			d.push(Event{Kind: Down})
		}
		return
	}

	switch b {
	case scanShiftLeft, scanShiftRight:
		d.shift = true
		return
	case scanShiftLeftBrk, scanShiftRightBr:
		d.shift = false
		return
	}

	if b&releaseBit != 0 {
		return // release of some other key, drop
	}

	switch b {
	case scanEnter:
		d.push(Event{Kind: Enter})
		return
	case scanBackspace:
		d.push(Event{Kind: Backspace})
		return
	}

	if ch, ok := translate(b, d.shift); ok {
		d.push(Event{Kind: Char, Char: ch})
	}
}

func (d *Decoder) push(ev Event) {
	d.ring.Push(ev)
}

// qwertzTable maps Set-1 make codes to the unshifted ASCII byte on a
// German QWERTZ layout. A scancode absent from the map has no mapping.
// The byte for 0x0C (0xDF, Latin-1 ß) and, in the shift table, for 0x04
// (0xA7, §) are passed through untranslated; no ASCII substitute is made.
var qwertzTable = map[byte]byte{
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x0C: 0xDF,
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'z', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x2C: 'y', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
	0x39: ' ',
	0x33: ',', 0x34: '.', 0x35: '-',
}

// qwertzShiftTable maps the same scancodes when shift is held.
var qwertzShiftTable = map[byte]byte{
	0x02: '!', 0x03: '"', 0x04: 0xA7, 0x05: '$', 0x06: '%',
	0x07: '&', 0x08: '/', 0x09: '(', 0x0A: ')', 0x0B: '=',
	0x10: 'Q', 0x11: 'W', 0x12: 'E', 0x13: 'R', 0x14: 'T',
	0x15: 'Z', 0x16: 'U', 0x17: 'I', 0x18: 'O', 0x19: 'P',
	0x1E: 'A', 0x1F: 'S', 0x20: 'D', 0x21: 'F', 0x22: 'G',
	0x23: 'H', 0x24: 'J', 0x25: 'K', 0x26: 'L',
	0x2C: 'Y', 0x2D: 'X', 0x2E: 'C', 0x2F: 'V', 0x30: 'B',
	0x31: 'N', 0x32: 'M',
	0x39: ' ',
	0x33: ';', 0x34: ':', 0x35: '_',
}

func translate(scancode byte, shift bool) (byte, bool) {
	table := qwertzTable
	if shift {
		table = qwertzShiftTable
	}
	ch, ok := table[scancode]
	return ch, ok
}
