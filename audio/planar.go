// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/wav2mp3/utils"
)

// ReadPlanar16 drains src and returns one slice of 16-bit samples per
// channel. Samples are clamped to [-1, 1] and scaled by 32768 when negative
// and 32767 otherwise. src is not closed.
func ReadPlanar16(src Source) ([][]int16, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	planar := make([][]int16, channels)
	buf := make([]float32, max(src.BufSize()/channels, 1)*channels)

	for {
		n, err := src.ReadSamples(buf)

		for i, s := range buf[:n-n%channels] {
			planar[i%channels] = append(planar[i%channels], utils.Float32ToInt16(s))
		}

		if errors.Is(err, io.EOF) {
			return planar, nil
		}

		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
	}
}
