// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
)

// shineEncoder adapts the pure Go shine encoder. Blocks are collected until
// Flush, which hands shine one frame of interleaved samples per Write.
type shineEncoder struct {
	channels   int
	sampleRate int
	bitrate    int
	pcm        []int16
	flushed    bool
}

// NewShineEncoder is an EncoderFactory backed by shine. bitrateKbps must be
// one of Bitrates. Below 32 kHz, where MPEG-2 and MPEG-2.5 allow fewer
// bitrates, it is lowered with FitBitrate.
func NewShineEncoder(channels, sampleRate, bitrateKbps int) (Encoder, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, channels)
	}

	if !IsSupportedSampleRate(sampleRate) {
		return nil, fmt.Errorf("%w: %d Hz", ErrUnsupportedSampleRate, sampleRate)
	}

	if err := ValidateBitrate(bitrateKbps); err != nil {
		return nil, err
	}

	bitrate := FitBitrate(sampleRate, bitrateKbps)
	if shine.CheckConfig(sampleRate, bitrate) < 0 {
		return nil, fmt.Errorf("%w: %d kbps at %d Hz", ErrUnsupportedBitrate, bitrate, sampleRate)
	}

	return &shineEncoder{channels: channels, sampleRate: sampleRate, bitrate: bitrate}, nil
}

func (e *shineEncoder) Encode(left, right []int16) ([]byte, error) {
	if e.flushed {
		return nil, ErrEncoderClosed
	}

	if len(left) > FrameSamples {
		return nil, fmt.Errorf("%w: %d", ErrBlockTooLarge, len(left))
	}

	if e.channels == 1 {
		e.pcm = append(e.pcm, left...)
		return nil, nil
	}

	if len(right) != len(left) {
		return nil, fmt.Errorf("%w: %d and %d", ErrChannelLengthMismatch, len(left), len(right))
	}

	for i := range left {
		e.pcm = append(e.pcm, left[i], right[i])
	}

	return nil, nil
}

func (e *shineEncoder) Flush() ([]byte, error) {
	if e.flushed {
		return nil, ErrEncoderClosed
	}

	e.flushed = true

	if len(e.pcm) == 0 {
		return nil, nil
	}

	pcm := e.pcm
	e.pcm = nil

	out := new(bytes.Buffer)
	if err := e.writeFrames(out, pcm); err != nil {
		return nil, err
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrNoOutput, e.sampleRate, e.channels)
	}

	return out.Bytes(), nil
}

// writeFrames encodes interleaved pcm to w. shine's Write advances two frames
// per step and reads a full frame at each one, so it gets exactly one frame
// per call and the tail is padded with silence.
func (e *shineEncoder) writeFrames(w io.Writer, pcm []int16) error {
	enc := shine.NewEncoder(e.sampleRate, e.channels)
	if err := setBitrate(enc, e.bitrate); err != nil {
		return err
	}

	block := int(enc.Mpeg.GranulesPerFrame) * shine.GRANULE_SIZE * e.channels
	if rem := len(pcm) % block; rem != 0 {
		pcm = append(pcm, make([]int16, block-rem)...)
	}

	for off := 0; off < len(pcm); off += block {
		if err := enc.Write(w, pcm[off:off+block]); err != nil {
			return fmt.Errorf("shine: %w", err)
		}
	}

	return nil
}

// setBitrate replaces the 128 kbps shine.NewEncoder configures and
// recomputes the slots per frame the way it does.
func setBitrate(enc *shine.Encoder, kbps int) error {
	rate := int(enc.Wave.SampleRate)

	index := slices.Index(BitratesFor(rate), kbps)
	if index < 0 || shine.CheckConfig(rate, kbps) < 0 {
		return fmt.Errorf("%w: %d kbps at %d Hz", ErrUnsupportedBitrate, kbps, rate)
	}

	m := &enc.Mpeg
	m.Bitrate = int64(kbps)
	m.BitrateIndex = int64(index + 1)

	avg := float64(m.GranulesPerFrame) * shine.GRANULE_SIZE / float64(enc.Wave.SampleRate) *
		(float64(m.Bitrate) * 1000 / float64(m.BitsPerSlot))

	m.WholeSlotsPerFrame = int64(avg)
	m.FracSlotsPerFrame = avg - float64(m.WholeSlotsPerFrame)
	m.Slot_lag = -m.FracSlotsPerFrame

	if m.FracSlotsPerFrame == 0 {
		m.Padding = 0
	}

	return nil
}
