// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"
	"time"

	"github.com/ik5/wav2mp3/audio"
)

// DecodedAudio is the result of Decode: the parsed format and one slice of
// normalized samples per channel, all of the same length.
type DecodedAudio struct {
	Format   Format
	Channels [][]float32
}

// FrameCount is the number of samples in each channel.
func (d *DecodedAudio) FrameCount() int {
	if d == nil || len(d.Channels) == 0 {
		return 0
	}

	return len(d.Channels[0])
}

// Duration is the playing time of the decoded audio.
func (d *DecodedAudio) Duration() time.Duration {
	if d == nil || d.Format.SampleRate <= 0 {
		return 0
	}

	return time.Duration(d.FrameCount()) * time.Second / time.Duration(d.Format.SampleRate)
}

// Source returns an audio.Source that streams the samples interleaved.
// Each call returns an independent reader positioned at the first frame.
func (d *DecodedAudio) Source() audio.Source {
	return &source{decoded: d}
}

type source struct {
	decoded *DecodedAudio
	frame   int
}

func (s *source) SampleRate() int { return s.decoded.Format.SampleRate }
func (s *source) Channels() int   { return len(s.decoded.Channels) }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	channels := s.Channels()
	if channels == 0 {
		return 0, io.EOF
	}

	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	total := s.decoded.FrameCount()
	frames := min(len(dst)/channels, total-s.frame)

	for f := range frames {
		base := f * channels
		for ch, samples := range s.decoded.Channels {
			dst[base+ch] = samples[s.frame+f]
		}
	}

	s.frame += frames
	n := frames * channels

	if s.frame >= total {
		return n, io.EOF
	}

	return n, nil
}
