// SPDX-License-Identifier: EPL-2.0

// Package id3 builds ID3v2.3 and ID3v2.4 tags.
//
// Build turns a Fields record into a self-contained tag that can be placed in
// front of an MP3 stream:
//
//	tag, err := id3.Build(id3.Fields{
//	    Title:  "Intro",
//	    Artist: "Alice; Bob",
//	}, id3.V24)
//
// Text frames are UTF-16 with a byte order mark. Artist and AlbumArtist are
// split on ';' and written as NUL-separated values in one frame. A cover is
// written as an APIC front cover; its MIME type is detected from the image
// bytes when not given.
//
// The tag and every frame are limited to 2^28-1 bytes, the largest synchsafe
// size; Build reports ErrTagTooLarge beyond that.
//
// ParseHeader reads the header of an existing tag, which is enough to skip
// over it.
package id3
