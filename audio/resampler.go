// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/wav2mp3/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom cubic
// interpolation. The channel count is preserved. When downsampling, the
// input first passes a one-pole low-pass filter set just below the new
// Nyquist frequency.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames per output frame
	channels int

	// window holds source frames t-1, t, t+1 and t+2. real marks the ones
	// read from src; the others repeat an edge frame.
	window [4][]float32
	real   [4]bool
	primed bool
	pos    float64 // position between window[1] and window[2], in [0, 1)

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	lowpass  []float32
	alpha    float32 // 0 disables the filter
	filtered bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		rate:     dstRate,
		step:     step,
		channels: channels,
		lowpass:  make([]float32, max(channels, 0)),
	}

	if step > 1 {
		cutoff := 0.45 / step // cycles per source sample
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff))
	}

	for i := range r.window {
		r.window[i] = make([]float32, max(channels, 0))
	}

	if channels > 0 {
		r.in = make([]float32, max(src.BufSize()/channels, 1)*channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampler source: %w", err)
	}

	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels

		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("resampler read: %w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.alpha > 0 {
		if !r.filtered {
			// Start from the first frame to avoid a fade-in.
			copy(r.lowpass, dst)
			r.filtered = true
		}

		for c, x := range dst {
			r.lowpass[c] += r.alpha * (x - r.lowpass[c])
			dst[c] = r.lowpass[c]
		}
	}

	return true, nil
}

// prime loads the first frames. The frame before the start repeats frame 0.
func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.window[1])
	if err != nil || !ok {
		return err
	}

	r.real[1] = true
	copy(r.window[0], r.window[1])

	for i := 2; i < 4; i++ {
		if err := r.load(i); err != nil {
			return err
		}
	}

	r.primed = true

	return nil
}

// load fills window[i] from the source or, past the end, repeats window[i-1].
func (r *Resampler) load(i int) error {
	ok, err := r.nextFrame(r.window[i])
	if err != nil {
		return err
	}

	if !ok {
		copy(r.window[i], r.window[i-1])
	}

	r.real[i] = ok

	return nil
}

func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.real[:], r.real[1:])

	return r.load(3)
}

// ReadSamples produces interleaved samples at the target rate. len(dst) must
// be a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.channels <= 0 {
		return 0, ErrNoChannels
	}

	if r.rate <= 0 || r.step <= 0 {
		return 0, ErrInvalidRate
	}

	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}

		if !r.primed {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1 {
			r.pos--

			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.real[1] {
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]

		utils.CubicInterpolateFrame(out, r.window[0], r.window[1], r.window[2], r.window[3], x)

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
