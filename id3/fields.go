// SPDX-License-Identifier: EPL-2.0

package id3

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Version is the ID3v2 minor version written in the tag header.
type Version byte

const (
	V23 Version = 3 // ID3v2.3
	V24 Version = 4 // ID3v2.4
)

func (v Version) Valid() bool {
	return v == V23 || v == V24
}

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%d", byte(v))
}

// Fields is the metadata written into a tag. Empty or blank fields are
// omitted. Artist, AlbumArtist and Genre may list several values separated
// by ';'.
type Fields struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Year        string
	Track       string // "3" or "3/12"
	Genre       string
	Cover       *Picture
}

// Picture is a front cover image.
type Picture struct {
	// MIMEType such as "image/jpeg". Detected from Data when empty.
	MIMEType string
	Data     []byte
}

// mime returns the declared MIME type or sniffs it from the image bytes.
func (p *Picture) mime() string {
	if p.MIMEType != "" {
		return p.MIMEType
	}

	m, _, _ := strings.Cut(mimetype.Detect(p.Data).String(), ";")

	return m
}

// SplitValues splits a ';'-delimited list, trims each entry and drops empty
// ones.
func SplitValues(s string) []string {
	var out []string

	for v := range strings.SplitSeq(s, ";") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// IsEmpty reports whether Build would emit no frames for f.
func (f Fields) IsEmpty() bool {
	for _, s := range []string{f.Title, f.Album, f.Year, f.Track} {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}

	return len(SplitValues(f.Artist)) == 0 &&
		len(SplitValues(f.AlbumArtist)) == 0 &&
		len(SplitValues(f.Genre)) == 0 &&
		(f.Cover == nil || len(f.Cover.Data) == 0)
}
