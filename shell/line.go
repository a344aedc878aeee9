package shell

const (
	lineCapacity = 128
	historyDepth = 16
)

// LineEditor is the kernel console's 128-byte input buffer with a
// 16-entry command history ring, driven one keyboard.Event at a time.
type LineEditor struct {
	buf [lineCapacity]byte
	len int

	history      []string // oldest first, at most historyDepth entries
	historyIndex int      // -1 means "not browsing history"
}

// NewLineEditor returns a ready, empty LineEditor.
func NewLineEditor() *LineEditor {
	return &LineEditor{historyIndex: -1}
}

// Text returns the buffer's current contents.
func (l *LineEditor) Text() string {
	return string(l.buf[:l.len])
}

// PutChar appends b if there is room. Reports whether it was accepted.
func (l *LineEditor) PutChar(b byte) bool {
	if b < 0x20 || b > 0x7E || l.len >= lineCapacity {
		return false
	}
	l.buf[l.len] = b
	l.len++
	l.historyIndex = -1
	return true
}

// Backspace removes the last character, if any. Reports whether it did.
func (l *LineEditor) Backspace() bool {
	if l.len == 0 {
		return false
	}
	l.len--
	l.historyIndex = -1
	return true
}

// Commit returns the current line and clears the buffer. If the line is
// non-empty it is appended to history, evicting the oldest entry once
// history is at capacity.
func (l *LineEditor) Commit() string {
	text := l.Text()
	if text != "" {
		l.history = append(l.history, text)
		if len(l.history) > historyDepth {
			l.history = l.history[len(l.history)-historyDepth:]
		}
	}
	l.len = 0
	l.historyIndex = -1
	return text
}

// History returns every committed line, oldest first.
func (l *LineEditor) History() []string {
	return l.history
}

// Up moves the history index toward the oldest entry (index 0) and
// replaces the buffer with the selected line. A no-op if history is
// empty.
func (l *LineEditor) Up() {
	if len(l.history) == 0 {
		return
	}
	if l.historyIndex < 0 {
		l.historyIndex = len(l.history) - 1
	} else if l.historyIndex > 0 {
		l.historyIndex--
	}
	l.setFromHistory()
}

// Down moves the history index toward the newest entry. Stepping past
// the last entry clears the line and stops browsing history.
func (l *LineEditor) Down() {
	if l.historyIndex < 0 {
		return
	}
	if l.historyIndex >= len(l.history)-1 {
		l.historyIndex = -1
		l.len = 0
		return
	}
	l.historyIndex++
	l.setFromHistory()
}

func (l *LineEditor) setFromHistory() {
	text := l.history[l.historyIndex]
	l.len = copy(l.buf[:], text)
}
