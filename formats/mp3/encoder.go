// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"slices"
)

// FrameSamples is the number of samples per channel in one Layer III frame.
const FrameSamples = 1152

// DefaultBitrate in kbps.
const DefaultBitrate = 128

// Encoder turns 16-bit PCM into an MP3 bitstream.
type Encoder interface {
	// Encode takes up to FrameSamples samples per channel. right is nil for
	// mono. It may return no bytes while input is buffered.
	Encode(left, right []int16) ([]byte, error)
	// Flush returns whatever is still buffered. The encoder is unusable
	// afterwards.
	Flush() ([]byte, error)
}

// EncoderFactory creates an Encoder for one stream.
type EncoderFactory func(channels, sampleRate, bitrateKbps int) (Encoder, error)

// SupportedSampleRates lists the MPEG-1, MPEG-2 and MPEG-2.5 rates in Hz.
var SupportedSampleRates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000}

// Bitrates lists the MPEG-1 Layer III bitrates in kbps.
var Bitrates = []int{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}

// Layer III bitrates of the lower sampling frequencies, in kbps. MPEG-2.5
// stops at 64 kbps.
var (
	mpeg2Bitrates  = []int{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
	mpeg25Bitrates = mpeg2Bitrates[:8]
)

// BitratesFor returns the bitrates allowed at sampleRate, in index order.
func BitratesFor(sampleRate int) []int {
	switch {
	case sampleRate >= 32000:
		return Bitrates
	case sampleRate >= 16000:
		return mpeg2Bitrates
	default:
		return mpeg25Bitrates
	}
}

// FitBitrate returns the highest bitrate allowed at sampleRate that does not
// exceed kbps, or the lowest allowed one when kbps is below all of them.
func FitBitrate(sampleRate, kbps int) int {
	allowed := BitratesFor(sampleRate)
	best := allowed[0]

	for _, b := range allowed {
		if b <= kbps {
			best = b
		}
	}

	return best
}

// IsSupportedSampleRate reports whether rate can be encoded without
// resampling.
func IsSupportedSampleRate(rate int) bool {
	return slices.Contains(SupportedSampleRates, rate)
}

// NearestSampleRate returns the supported rate closest to rate, preferring
// the higher one on a tie.
func NearestSampleRate(rate int) int {
	best := SupportedSampleRates[0]

	for _, r := range SupportedSampleRates[1:] {
		if abs(r-rate) <= abs(best-rate) {
			best = r
		}
	}

	return best
}

// ValidateBitrate checks kbps against Bitrates.
func ValidateBitrate(kbps int) error {
	if !slices.Contains(Bitrates, kbps) {
		return fmt.Errorf("%w: %d kbps", ErrUnsupportedBitrate, kbps)
	}

	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// EncodeFrames feeds planar samples to enc in blocks of FrameSamples, then
// flushes it, and returns the concatenated output.
func EncodeFrames(enc Encoder, planar [][]int16) ([]byte, error) {
	if len(planar) == 0 || len(planar) > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, len(planar))
	}

	total := len(planar[0])
	if len(planar) == 2 && len(planar[1]) != total {
		return nil, fmt.Errorf("%w: %d and %d", ErrChannelLengthMismatch, total, len(planar[1]))
	}

	var out []byte

	for start := 0; start < total; start += FrameSamples {
		end := min(start+FrameSamples, total)

		var right []int16
		if len(planar) == 2 {
			right = planar[1][start:end]
		}

		chunk, err := enc.Encode(planar[0][start:end], right)
		if err != nil {
			return nil, fmt.Errorf("encoding samples %d-%d: %w", start, end, err)
		}

		out = append(out, chunk...)
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("flushing encoder: %w", err)
	}

	return append(out, tail...), nil
}
