// SPDX-License-Identifier: EPL-2.0

package id3

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	frameHeaderSize = 10

	encodingLatin1  = 0x00
	encodingUTF16   = 0x01
	pictureFrontCov = 0x03
)

// frame is a single ID3v2 frame before serialization.
type frame struct {
	id      string
	payload []byte
}

func (f frame) size() int {
	return frameHeaderSize + len(f.payload)
}

// appendTo serializes f after dst. Frame sizes are synchsafe in v2.4 and
// plain big-endian in v2.3.
func (f frame) appendTo(dst []byte, v Version) ([]byte, error) {
	n := len(f.payload)
	if n > MaxSize {
		return dst, fmt.Errorf("%w: frame %s holds %d bytes", ErrTagTooLarge, f.id, n)
	}

	dst = append(dst, f.id...)

	if v == V24 {
		size, err := EncodeSynchsafe(uint32(n))
		if err != nil {
			return dst, err
		}

		dst = append(dst, size[:]...)
	} else {
		dst = binary.BigEndian.AppendUint32(dst, uint32(n))
	}

	// flags
	dst = append(dst, 0, 0)

	return append(dst, f.payload...), nil
}

// textFrame encodes values as UTF-16 with a little-endian BOM. Several values
// are separated by NUL and the text ends with a NUL code unit.
func textFrame(id string, values ...string) (frame, error) {
	text := strings.Join(values, "\x00")

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()

	utf16, err := enc.Bytes([]byte(text))
	if err != nil {
		return frame{}, fmt.Errorf("encoding %s text: %w", id, err)
	}

	payload := make([]byte, 0, 1+len(utf16)+2)
	payload = append(payload, encodingUTF16)
	payload = append(payload, utf16...)
	payload = append(payload, 0, 0)

	return frame{id: id, payload: payload}, nil
}

// pictureFrame builds an APIC front cover frame.
func pictureFrame(p *Picture) (frame, error) {
	// Characters outside Latin-1 are replaced rather than rejected.
	latin1 := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())

	mime, err := latin1.String(p.mime())
	if err != nil {
		return frame{}, fmt.Errorf("encoding APIC MIME type: %w", err)
	}

	payload := make([]byte, 0, 1+len(mime)+3+len(p.Data))
	payload = append(payload, encodingLatin1)
	payload = append(payload, mime...)
	payload = append(payload, 0, pictureFrontCov, 0)
	payload = append(payload, p.Data...)

	return frame{id: "APIC", payload: payload}, nil
}
