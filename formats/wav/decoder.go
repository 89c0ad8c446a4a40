// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/riff"
	"github.com/ik5/wav2mp3/audio"
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
)

var (
	riffID = string(riff.RiffID[:])
	waveID = string(riff.WavFormatID[:])
	fmtID  = string(riff.FmtID[:])
	dataID = string(riff.DataFormatID[:])
)

// Decode parses a complete RIFF/WAVE file held in memory and returns its
// samples split per channel and normalized to [-1, 1].
//
// On failure the returned error is a *DecodeError and no audio is returned.
// Trailing bytes that do not fill a whole frame are dropped.
func Decode(data []byte) (*DecodedAudio, error) {
	c := newCursor(data)

	if err := readContainerHeader(c); err != nil {
		return nil, err
	}

	var (
		format    Format
		haveFmt   bool
		fmtOffset int
		pcm       []byte
		haveData  bool
	)

	for !(haveFmt && haveData) && c.remaining() >= chunkHeaderSize {
		start := c.offset()

		id, size, err := readChunkHeader(c)
		if err != nil {
			return nil, newError(KindTruncatedChunk, start, "chunk header: %v", err)
		}

		payload, err := c.readBytes(int(size))
		if err != nil {
			return nil, newError(KindTruncatedChunk, start,
				"chunk %q declares %d bytes but only %d remain", id, size, c.remaining())
		}

		switch {
		case id == fmtID && !haveFmt:
			fmtOffset = start + chunkHeaderSize

			format, err = parseFmt(payload, fmtOffset)
			if err != nil {
				return nil, err
			}

			haveFmt = true
		case id == dataID && !haveData:
			pcm = payload
			haveData = true
		}

		// Chunks are word aligned. A missing pad byte at the very end of
		// the input is tolerated.
		if size%2 == 1 && c.remaining() > 0 {
			if err := c.skip(1); err != nil {
				return nil, newError(KindTruncatedChunk, c.offset(), "pad byte: %v", err)
			}
		}
	}

	if !haveFmt {
		return nil, newError(KindMissingChunk, c.offset(), "no %q chunk", fmtID)
	}

	if !haveData {
		return nil, newError(KindMissingChunk, c.offset(), "no %q chunk", dataID)
	}

	return decodeFrames(format, fmtOffset, pcm)
}

func readContainerHeader(c *cursor) error {
	if c.remaining() < riffHeaderSize {
		return newError(KindMalformedContainer, 0, "input is %d bytes, too short for a RIFF header", c.remaining())
	}

	id, err := c.readFixedString(4)
	if err != nil {
		return newError(KindMalformedContainer, 0, "%v", err)
	}

	if id != riffID {
		return newError(KindMalformedContainer, 0, "container id %q, want %q", id, riffID)
	}

	// The declared RIFF size is not trusted; chunk bounds come from the input.
	if _, err := c.readU32LE(); err != nil {
		return newError(KindMalformedContainer, 4, "%v", err)
	}

	form, err := c.readFixedString(4)
	if err != nil {
		return newError(KindMalformedContainer, 8, "%v", err)
	}

	if form != waveID {
		return newError(KindMalformedContainer, 8, "form type %q, want %q", form, waveID)
	}

	return nil
}

func readChunkHeader(c *cursor) (string, uint32, error) {
	id, err := c.readFixedString(4)
	if err != nil {
		return "", 0, err
	}

	size, err := c.readU32LE()
	if err != nil {
		return "", 0, err
	}

	return id, size, nil
}

func decodeFrames(format Format, fmtOffset int, pcm []byte) (*DecodedAudio, error) {
	frameSize := format.FrameSize()
	if frameSize <= 0 {
		return nil, newError(KindInvalidFrameLayout, fmtOffset,
			"%d channels of %d bytes per sample", format.Channels, format.BytesPerSample())
	}

	sample, err := sampleDecoder(format, fmtOffset)
	if err != nil {
		return nil, err
	}

	frames := len(pcm) / frameSize
	bps := format.BytesPerSample()

	channels := make([][]float32, format.Channels)
	for ch := range channels {
		channels[ch] = make([]float32, frames)
	}

	for i := range frames {
		frame := pcm[i*frameSize : (i+1)*frameSize]

		for ch := range channels {
			channels[ch][i] = sample(frame[ch*bps : (ch+1)*bps])
		}
	}

	return &DecodedAudio{
		Format:   format,
		Channels: channels,
	}, nil
}

// Decoder reads a WAV stream into memory and exposes it as an audio.Source.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return decoded.Source(), nil
}
