// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var errShortBuffer = errors.New("not enough bytes")

// cursor walks a byte slice front to back. Every read checks the bounds
// first and advances only on success.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

func (c *cursor) offset() int    { return c.pos }
func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) need(n int) error {
	if n < 0 || n > c.remaining() {
		return fmt.Errorf("%w: want %d at offset %d, have %d", errShortBuffer, n, c.pos, c.remaining())
	}

	return nil
}

// readBytes returns a view of the next n bytes. The view is capped so that
// appending to it can never overwrite the following input.
func (c *cursor) readBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}

	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n

	return b, nil
}

func (c *cursor) readU16LE() (uint16, error) {
	b, err := c.readBytes(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readU32LE() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readFixedString(n int) (string, error) {
	b, err := c.readBytes(n)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (c *cursor) skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}

	c.pos += n

	return nil
}
