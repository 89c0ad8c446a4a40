// SPDX-License-Identifier: EPL-2.0

package id3

import "errors"

var (
	// ErrTagTooLarge indicates the frames do not fit in a 28-bit synchsafe size.
	ErrTagTooLarge = errors.New("id3: tag exceeds 2^28-1 bytes")

	// ErrUnsupportedVersion indicates a version other than 2.3 or 2.4.
	ErrUnsupportedVersion = errors.New("id3: unsupported tag version")

	// ErrNoTag indicates the input does not start with an ID3v2 header.
	ErrNoTag = errors.New("id3: no ID3v2 tag")

	// ErrInvalidHeader indicates an ID3v2 header with corrupt fields.
	ErrInvalidHeader = errors.New("id3: invalid tag header")
)
