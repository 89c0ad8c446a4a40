// SPDX-License-Identifier: EPL-2.0

package id3

import (
	"fmt"
	"strings"
)

// Build serializes fields into a complete ID3v2 tag of version v.
//
// Frames are written in the order TIT2, TPE1, TALB, TPE2, the year frame
// (TYER in v2.3, TDRC in v2.4), TRCK, TCON and APIC. The only failure for a
// supported version is ErrTagTooLarge.
func Build(fields Fields, v Version) ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, byte(v))
	}

	frames, err := fields.frames(v)
	if err != nil {
		return nil, err
	}

	size := 0
	for _, f := range frames {
		size += f.size()
	}

	if size > MaxSize {
		return nil, fmt.Errorf("%w: frames hold %d bytes", ErrTagTooLarge, size)
	}

	out, err := Header{Version: v, Size: uint32(size)}.appendTo(make([]byte, 0, HeaderSize+size))
	if err != nil {
		return nil, err
	}

	for _, f := range frames {
		if out, err = f.appendTo(out, v); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (f Fields) frames(v Version) ([]frame, error) {
	yearID := "TDRC"
	if v == V23 {
		yearID = "TYER"
	}

	texts := []struct {
		id     string
		values []string
	}{
		{"TIT2", single(f.Title)},
		{"TPE1", SplitValues(f.Artist)},
		{"TALB", single(f.Album)},
		{"TPE2", SplitValues(f.AlbumArtist)},
		{yearID, single(f.Year)},
		{"TRCK", single(f.Track)},
		{"TCON", SplitValues(f.Genre)},
	}

	frames := make([]frame, 0, len(texts)+1)

	for _, t := range texts {
		if len(t.values) == 0 {
			continue
		}

		fr, err := textFrame(t.id, t.values...)
		if err != nil {
			return nil, err
		}

		frames = append(frames, fr)
	}

	if f.Cover != nil && len(f.Cover.Data) > 0 {
		fr, err := pictureFrame(f.Cover)
		if err != nil {
			return nil, err
		}

		frames = append(frames, fr)
	}

	return frames, nil
}

func single(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}

	return []string{s}
}
