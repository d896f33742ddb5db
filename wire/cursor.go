package wire

import (
	"github.com/spencerwhite/instrs/errors"
)

// Cursor is a read-only view over the undecoded suffix of a buffer.
//
// Every successful read advances the cursor past the bytes it consumed.
// A failed read leaves the cursor wherever the failing step left it; use
// Mark and Reset to snapshot and restore around a decode attempt.
type Cursor struct {
	buf []byte
	pos int
}

// Mark is a saved cursor position.
type Mark int

// NewCursor returns a cursor over b. The buffer is borrowed, not copied.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Len returns the number of undecoded bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

// Position returns the number of bytes consumed so far.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the undecoded bytes without consuming them.
func (c *Cursor) Remaining() []byte {
	return c.buf[c.pos:]
}

// Mark snapshots the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.pos)
}

// Reset restores a position previously returned by Mark.
func (c *Cursor) Reset(m Mark) {
	if int(m) < 0 || int(m) > len(c.buf) {
		panic("wire: reset to a mark from another cursor")
	}
	c.pos = int(m)
}

// Take consumes exactly n bytes and returns them as a view into the source
// buffer. The returned slice has its capacity clipped so appends never
// clobber bytes that follow it.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "negative read length")
	}
	if avail := c.Len(); avail < n {
		return nil, errors.ExpectedBytes(n - avail)
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip consumes n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.Take(n)
	return err
}
