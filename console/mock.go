package console

import "strings"

// MockWriter is an in-memory console sink for tests. It mirrors
// VGAWriter's row/col/scroll/wrap behavior over a plain string grid so
// shell command tests can assert on rendered output without touching real
// memory.
type MockWriter struct {
	grid     [][]byte
	row, col int
}

// NewMockWriter returns a MockWriter with the given row/column dimensions.
func NewMockWriter(rows, cols int) *MockWriter {
	m := &MockWriter{grid: make([][]byte, rows)}
	for i := range m.grid {
		m.grid[i] = bytes(cols, ' ')
	}
	return m
}

func bytes(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

func (m *MockWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		m.putByte(b)
	}
	return len(p), nil
}

func (m *MockWriter) putByte(b byte) {
	cols := len(m.grid[0])
	if b == '\n' {
		m.row++
		m.col = 0
		m.scrollIfNeeded()
		return
	}
	if m.col >= cols {
		m.col = 0
		m.row++
		m.scrollIfNeeded()
	}
	m.grid[m.row][m.col] = b
	m.col++
}

func (m *MockWriter) scrollIfNeeded() {
	rows := len(m.grid)
	if m.row < rows {
		return
	}
	cols := len(m.grid[0])
	copy(m.grid, m.grid[1:])
	m.grid[rows-1] = bytes(cols, ' ')
	m.row = rows - 1
}

func (m *MockWriter) Clear() error {
	cols := len(m.grid[0])
	for i := range m.grid {
		m.grid[i] = bytes(cols, ' ')
	}
	m.row, m.col = 0, 0
	return nil
}

func (m *MockWriter) Backspace() {
	if m.col > 0 {
		m.col--
	} else if m.row > 0 {
		m.row--
		m.col = len(m.grid[0]) - 1
	} else {
		return
	}
	m.grid[m.row][m.col] = ' '
}

// Cursor returns the writer's current (row, col).
func (m *MockWriter) Cursor() (int, int) {
	return m.row, m.col
}

// Lines returns the rendered grid with trailing spaces trimmed from each
// row, for readable test assertions.
func (m *MockWriter) Lines() []string {
	out := make([]string, len(m.grid))
	for i, row := range m.grid {
		out[i] = strings.TrimRight(string(row), " ")
	}
	return out
}

// Text joins Lines with newlines, dropping trailing blank rows.
func (m *MockWriter) Text() string {
	lines := m.Lines()
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
