// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/ik5/wav2mp3/audio"
	"github.com/ik5/wav2mp3/formats/mp3"
	"github.com/ik5/wav2mp3/formats/wav"
)

func newRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})

	return reg
}

// printInfo describes each input. Unreadable files are reported and the
// rest are still printed.
func printInfo(w io.Writer, inputs []string) error {
	reg := newRegistry()

	var errs []error

	for _, in := range inputs {
		if err := describe(w, reg, in); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", in, err))
		}
	}

	return errors.Join(errs...)
}

func describe(w io.Writer, reg *audio.Registry, path string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return err
	}

	ext := filepath.Ext(path)

	src, err := reg.Decode(ext, bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, audio.ErrUnknownFormat) {
			return fmt.Errorf("%w (known: %v)", errUnsupportedInput, reg.Formats())
		}

		return err
	}

	fmt.Fprintf(w, "%s\n  stream:   %d Hz, %d ch\n", path, src.SampleRate(), src.Channels())
	_ = src.Close()

	switch strings.ToLower(ext) {
	case ".wav":
		decoded, err := wav.Decode(data)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "  format:   %s\n  frames:   %d\n  duration: %s\n",
			decoded.Format, decoded.FrameCount(), decoded.Duration())
	case ".mp3":
		info, err := mp3.Probe(data)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "  duration: %s\n  id3 tag:  %d bytes\n", info.Duration, info.TagSize)
		printTags(w, data)
	}

	return nil
}

func printTags(w io.Writer, data []byte) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return
	}

	fmt.Fprintf(w, "  tags:     %s\n", m.Format())

	line := func(key, val string) {
		if val != "" {
			fmt.Fprintf(w, "    %-12s %s\n", key+":", val)
		}
	}

	line("Title", m.Title())
	line("Artist", m.Artist())
	line("Album", m.Album())
	line("AlbumArtist", m.AlbumArtist())
	line("Genre", m.Genre())

	if m.Year() != 0 {
		line("Year", fmt.Sprint(m.Year()))
	}

	if track, total := m.Track(); track != 0 {
		if total != 0 {
			line("Track", fmt.Sprintf("%d/%d", track, total))
		} else {
			line("Track", fmt.Sprint(track))
		}
	}

	if pic := m.Picture(); pic != nil {
		line("Cover", fmt.Sprintf("%s, %d bytes", pic.MIMEType, len(pic.Data)))
	}
}
