// SPDX-License-Identifier: EPL-2.0

package id3

import (
	"fmt"
)

// HeaderSize is the size of an ID3v2 tag header, and of its optional footer.
const HeaderSize = 10

// Header flag bits.
const (
	FlagUnsynchronisation = 0x80
	FlagExtendedHeader    = 0x40
	FlagExperimental      = 0x20
	FlagFooter            = 0x10 // v2.4 only
)

// Header is the fixed ten bytes at the start of every ID3v2 tag.
type Header struct {
	Version  Version
	Revision byte
	Flags    byte
	// Size of everything after the header, footer excluded.
	Size uint32
}

// TagSize is the number of bytes the whole tag occupies.
func (h Header) TagSize() int {
	n := HeaderSize + int(h.Size)
	if h.Flags&FlagFooter != 0 {
		n += HeaderSize
	}

	return n
}

func (h Header) appendTo(dst []byte) ([]byte, error) {
	size, err := EncodeSynchsafe(h.Size)
	if err != nil {
		return dst, err
	}

	dst = append(dst, 'I', 'D', '3', byte(h.Version), h.Revision, h.Flags)

	return append(dst, size[:]...), nil
}

// ParseHeader reads the tag header at the start of b. It returns ErrNoTag
// when b does not begin with "ID3" and ErrInvalidHeader when the version or
// size bytes are corrupt. Any ID3v2 major version is accepted.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize || string(b[:3]) != "ID3" {
		return Header{}, ErrNoTag
	}

	if b[3] == 0xFF || b[4] == 0xFF {
		return Header{}, fmt.Errorf("%w: version bytes %02X %02X", ErrInvalidHeader, b[3], b[4])
	}

	var size [4]byte
	copy(size[:], b[6:10])

	for _, s := range size {
		if s&0x80 != 0 {
			return Header{}, fmt.Errorf("%w: size % X is not synchsafe", ErrInvalidHeader, size)
		}
	}

	return Header{
		Version:  Version(b[3]),
		Revision: b[4],
		Flags:    b[5],
		Size:     DecodeSynchsafe(size),
	}, nil
}
