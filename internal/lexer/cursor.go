package lexer

import (
	"fmt"
	"strings"

	"pcrelint/internal/source"

	"fortio.org/safecast"
)

// Cursor is a byte position inside a source file.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF reports whether the cursor reached the end of input.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Peek2 returns the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Bump advances by one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// BumpN advances by n bytes, stopping at EOF.
func (c *Cursor) BumpN(n int) {
	for i := 0; i < n && !c.EOF(); i++ {
		c.Off++
	}
}

// HasPrefix reports whether the remaining input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.File.Content[c.Off:c.Limit]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// HasPrefixFold is HasPrefix ignoring ASCII case.
func (c *Cursor) HasPrefixFold(s string) bool {
	rest := c.File.Content[c.Off:c.Limit]
	return len(rest) >= len(s) && strings.EqualFold(string(rest[:len(s)]), s)
}

// Mark is a saved cursor position used to build spans.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
