// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/wav2mp3/audio"
)

// go-mp3 always decodes to interleaved stereo int16.
const (
	decodedChannels   = 2
	decodedFrameBytes = 4
)

// pcmReader is the part of gomp3.Decoder the source needs.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec  pcmReader
	rate int
	buf  []byte
}

func newSource(dec pcmReader) *source {
	return &source{dec: dec, rate: dec.SampleRate(), buf: make([]byte, 8192)}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return decodedChannels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return len(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%decodedChannels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}

	n, err := io.ReadFull(s.dec, s.buf[:need])
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	samples := n / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768
	}

	return samples, err
}

// Decoder reads MP3 streams with go-mp3. Output is always stereo.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	return newSource(dec), nil
}
