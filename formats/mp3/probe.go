// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"fmt"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/wav2mp3/id3"
)

// Info describes a decodable MP3 stream.
type Info struct {
	SampleRate int
	// Frames is the decoded length in samples per channel, or -1 when
	// go-mp3 cannot tell.
	Frames   int64
	Duration time.Duration
	// TagSize is the size of a leading ID3v2 tag, 0 if there is none.
	TagSize int
}

// Probe checks that data holds an MP3 stream go-mp3 can decode and reports
// its format. A leading ID3v2 tag is allowed.
func Probe(data []byte) (Info, error) {
	audioData := StripID3v2(data)

	dec, err := gomp3.NewDecoder(bytes.NewReader(audioData))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	info := Info{
		SampleRate: dec.SampleRate(),
		Frames:     -1,
		TagSize:    len(data) - len(audioData),
	}

	if length := dec.Length(); length >= 0 {
		info.Frames = length / decodedFrameBytes
		if info.SampleRate > 0 {
			info.Duration = time.Duration(info.Frames) * time.Second / time.Duration(info.SampleRate)
		}
	}

	return info, nil
}

// StripID3v2 returns data without a leading ID3v2 tag. Data without a tag,
// or with a tag that claims more bytes than data holds, is returned as is.
func StripID3v2(data []byte) []byte {
	h, err := id3.ParseHeader(data)
	if err != nil {
		return data
	}

	size := h.TagSize()
	if size > len(data) {
		return data
	}

	return data[size:]
}
