package engine

import (
	"fmt"
	"sync"

	"github.com/bastiangx/cppcomplete/pkg/classify"
)

// Host is the editor the engine completes for.
type Host interface {
	BufferText() (string, error)
	Cursor() (Cursor, error)
	// ReplaceRange replaces the byte range [start, end) with text and leaves
	// the caret right after text.
	ReplaceRange(start, end int, text string) error
}

// CursorSetter is implemented by hosts that can place the caret explicitly,
// e.g. on the first tab stop of an expanded snippet.
type CursorSetter interface {
	SetCursor(offset int) error
}

// Cursor is a caret position. Line and Column are 1-based, Column counting
// runes. A zero Line means Offset (bytes) is authoritative.
type Cursor struct {
	Line   int
	Column int
	Offset int
}

// OffsetIn resolves the cursor to a byte offset into buffer.
func (c Cursor) OffsetIn(buffer string) int {
	if c.Line > 0 {
		return classify.Offset(buffer, c.Line, c.Column)
	}
	if c.Offset < 0 {
		return 0
	}
	if c.Offset > len(buffer) {
		return len(buffer)
	}
	return c.Offset
}

// BufferHost is an in-memory Host.
type BufferHost struct {
	mu     sync.Mutex
	text   string
	cursor int
}

// NewBufferHost returns a host holding text with the caret at cursor.
func NewBufferHost(text string, cursor int) *BufferHost {
	h := &BufferHost{text: text}
	h.cursor = Cursor{Offset: cursor}.OffsetIn(text)
	return h
}

func (h *BufferHost) BufferText() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text, nil
}

func (h *BufferHost) Cursor() (Cursor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	line, col := classify.Position(h.text, h.cursor)
	return Cursor{Line: line, Column: col, Offset: h.cursor}, nil
}

func (h *BufferHost) ReplaceRange(start, end int, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if start < 0 || end < start || end > len(h.text) {
		return fmt.Errorf("invalid range [%d, %d) for buffer of %d bytes", start, end, len(h.text))
	}
	h.text = h.text[:start] + text + h.text[end:]
	h.cursor = start + len(text)
	return nil
}

func (h *BufferHost) SetCursor(offset int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if offset < 0 || offset > len(h.text) {
		return fmt.Errorf("cursor %d out of range [0, %d]", offset, len(h.text))
	}
	h.cursor = offset
	return nil
}

// Set replaces the whole buffer and caret.
func (h *BufferHost) Set(text string, cursor int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text = text
	h.cursor = Cursor{Offset: cursor}.OffsetIn(text)
}
