// SPDX-License-Identifier: EPL-2.0

package wav

import "fmt"

// Encoding is the sample coding declared by the fmt chunk.
type Encoding int

const (
	EncodingPCM   Encoding = iota + 1 // integer PCM
	EncodingFloat                     // IEEE-754 float
	EncodingALaw                      // G.711 A-law
	EncodingMuLaw                     // G.711 mu-law
)

func (e Encoding) String() string {
	switch e {
	case EncodingPCM:
		return "PCM"
	case EncodingFloat:
		return "IEEE float"
	case EncodingALaw:
		return "A-law"
	case EncodingMuLaw:
		return "mu-law"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

const (
	formatTagPCM        = 0x0001
	formatTagIEEEFloat  = 0x0003
	formatTagALaw       = 0x0006
	formatTagMuLaw      = 0x0007
	formatTagExtensible = 0xFFFE

	fmtMinSize = 16
	// valid bits (2) + channel mask (4) + sub-format GUID (16)
	extensibleMinSize = 22
)

// Format is the audio layout described by a WAV fmt chunk.
type Format struct {
	Encoding Encoding
	// FormatTag is the tag as stored in the file, 0xFFFE for extensible files.
	FormatTag     uint16
	Channels      int
	SampleRate    int
	BitsPerSample int
	ByteRate      int
	BlockAlign    int

	// Only set for extensible files.
	ValidBitsPerSample int
	ChannelMask        uint32
}

// BytesPerSample is the storage size of one sample of one channel.
func (f Format) BytesPerSample() int {
	return f.BitsPerSample / 8
}

// FrameSize is the storage size of one sample for every channel.
func (f Format) FrameSize() int {
	return f.BytesPerSample() * f.Channels
}

// Extensible reports whether the encoding came from an extensible sub-format.
func (f Format) Extensible() bool {
	return f.FormatTag == formatTagExtensible
}

func (f Format) String() string {
	return fmt.Sprintf("%d ch, %d Hz, %d-bit %s", f.Channels, f.SampleRate, f.BitsPerSample, f.Encoding)
}

// parseFmt reads a fmt chunk payload. base is the payload's offset in the
// input and is only used for error reporting.
func parseFmt(payload []byte, base int) (Format, error) {
	if len(payload) < fmtMinSize {
		return Format{}, newError(KindTruncatedChunk, base,
			"fmt chunk holds %d bytes, need at least %d", len(payload), fmtMinSize)
	}

	c := newCursor(payload)

	tag, err := c.readU16LE()
	if err != nil {
		return Format{}, fmtReadError(base, err)
	}

	channels, err := c.readU16LE()
	if err != nil {
		return Format{}, fmtReadError(base, err)
	}

	sampleRate, err := c.readU32LE()
	if err != nil {
		return Format{}, fmtReadError(base, err)
	}

	byteRate, err := c.readU32LE()
	if err != nil {
		return Format{}, fmtReadError(base, err)
	}

	blockAlign, err := c.readU16LE()
	if err != nil {
		return Format{}, fmtReadError(base, err)
	}

	bits, err := c.readU16LE()
	if err != nil {
		return Format{}, fmtReadError(base, err)
	}

	f := Format{
		FormatTag:     tag,
		Channels:      int(channels),
		SampleRate:    int(sampleRate),
		BitsPerSample: int(bits),
		ByteRate:      int(byteRate),
		BlockAlign:    int(blockAlign),
	}

	if f.SampleRate == 0 {
		return Format{}, newError(KindUnsupportedFormat, base+4, "sample rate is zero")
	}

	if tag == formatTagExtensible {
		if err := parseExtensible(c, base, &f); err != nil {
			return Format{}, err
		}

		return f, nil
	}

	switch tag {
	case formatTagPCM:
		f.Encoding = EncodingPCM
	case formatTagIEEEFloat:
		f.Encoding = EncodingFloat
	case formatTagALaw:
		f.Encoding = EncodingALaw
	case formatTagMuLaw:
		f.Encoding = EncodingMuLaw
	default:
		return Format{}, newError(KindUnsupportedFormat, base, "format tag 0x%04X", tag)
	}

	// Any extension on a plain tag is ignored.
	return f, nil
}

// parseExtensible resolves the real encoding of a WAVE_FORMAT_EXTENSIBLE fmt
// chunk from the first two bytes of its sub-format GUID.
func parseExtensible(c *cursor, base int, f *Format) error {
	extOffset := base + c.offset()

	if c.remaining() < 2 {
		return newError(KindUnsupportedFormat, extOffset, "extensible fmt chunk has no extension")
	}

	extSize, err := c.readU16LE()
	if err != nil {
		return fmtReadError(base, err)
	}

	if int(extSize) < extensibleMinSize || c.remaining() < extensibleMinSize {
		return newError(KindUnsupportedFormat, extOffset,
			"extensible fmt extension holds %d bytes, need %d", min(int(extSize), c.remaining()), extensibleMinSize)
	}

	validBits, err := c.readU16LE()
	if err != nil {
		return fmtReadError(base, err)
	}

	mask, err := c.readU32LE()
	if err != nil {
		return fmtReadError(base, err)
	}

	subFormat, err := c.readU16LE()
	if err != nil {
		return fmtReadError(base, err)
	}

	// The remaining 14 GUID bytes and any trailing extension data are not used.

	switch subFormat {
	case formatTagPCM:
		f.Encoding = EncodingPCM
	case formatTagIEEEFloat:
		f.Encoding = EncodingFloat
	default:
		return newError(KindUnsupportedFormat, extOffset+8, "extensible sub-format 0x%04X", subFormat)
	}

	f.ValidBitsPerSample = int(validBits)
	f.ChannelMask = mask

	return nil
}

func fmtReadError(base int, err error) error {
	return newError(KindTruncatedChunk, base, "fmt chunk: %v", err)
}
