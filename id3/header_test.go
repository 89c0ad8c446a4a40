// SPDX-License-Identifier: EPL-2.0

package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		want    Header
		tagSize int
		err     error
	}{
		{
			name:    "v2.4 no footer",
			in:      []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 1, 0x48},
			want:    Header{Version: V24, Size: 200},
			tagSize: 210,
		},
		{
			name:    "v2.4 with footer",
			in:      []byte{'I', 'D', '3', 4, 0, FlagFooter, 0, 0, 0, 20},
			want:    Header{Version: V24, Flags: FlagFooter, Size: 20},
			tagSize: 40,
		},
		{
			name:    "v2.2 accepted",
			in:      []byte{'I', 'D', '3', 2, 0, 0, 0, 0, 0, 5, 0xFF},
			want:    Header{Version: 2, Size: 5},
			tagSize: 15,
		},
		{name: "short", in: []byte("ID3"), err: ErrNoTag},
		{name: "no magic", in: []byte("RIFF\x00\x00\x00\x00WAVE"), err: ErrNoTag},
		{name: "mp3 sync word", in: []byte{0xFF, 0xFB, 0x90, 0, 0, 0, 0, 0, 0, 0}, err: ErrNoTag},
		{name: "bad version", in: []byte{'I', 'D', '3', 0xFF, 0, 0, 0, 0, 0, 0}, err: ErrInvalidHeader},
		{name: "size high bit", in: []byte{'I', 'D', '3', 3, 0, 0, 0, 0x80, 0, 0}, err: ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := ParseHeader(tt.in)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
			assert.Equal(t, tt.tagSize, h.TagSize())
		})
	}
}

func TestParseHeader_BuildOutput(t *testing.T) {
	t.Parallel()

	tag, err := Build(Fields{Title: "Rain", Album: "Field Notes"}, V23)
	require.NoError(t, err)

	h, err := ParseHeader(tag)
	require.NoError(t, err)
	assert.Equal(t, V23, h.Version)
	assert.Zero(t, h.Flags)
	assert.Equal(t, len(tag), h.TagSize())
}
