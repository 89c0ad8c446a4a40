// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: synthetic
// audio sources and a RIFF/WAVE file builder.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// Waveform returns the value of frame i on channel ch.
type Waveform func(i, ch int) float32

// MockSource is a synthetic audio.Source (it satisfies the interface without
// importing the audio package). It yields Frames frames of Wave.
type MockSource struct {
	Rate   int
	Chans  int
	Frames int
	Wave   Waveform

	// FailAfter makes ReadSamples return ErrMockRead once this many frames
	// were produced. Zero disables it.
	FailAfter int

	pos    int
	closed bool
}

// ErrMockRead is returned by a MockSource configured with FailAfter.
var ErrMockRead = errors.New("mock read failure")

// NewMockSource creates a source with the given waveform.
func NewMockSource(sampleRate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{Rate: sampleRate, Chans: channels, Frames: frames, Wave: wave}
}

// NewSilentSource yields zeros.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewConstantSource yields value on every channel.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewSineSource yields the same sine tone on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(i, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(i) / float64(sampleRate)))
	})
}

func (m *MockSource) SampleRate() int { return m.Rate }
func (m *MockSource) Channels() int   { return m.Chans }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() { m.pos = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.FailAfter > 0 && m.pos >= m.FailAfter {
		return 0, ErrMockRead
	}

	if m.pos >= m.Frames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.Chans, m.Frames-m.pos)
	if m.FailAfter > 0 {
		frames = min(frames, m.FailAfter-m.pos)
	}

	for f := range frames {
		for ch := range m.Chans {
			dst[f*m.Chans+ch] = m.Wave(m.pos+f, ch)
		}
	}

	m.pos += frames

	if m.pos >= m.Frames {
		return frames * m.Chans, io.EOF
	}

	return frames * m.Chans, nil
}
