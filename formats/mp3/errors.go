// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

var (
	ErrUnsupportedSampleRate = errors.New("mp3: sample rate not supported by MPEG audio")
	ErrUnsupportedBitrate    = errors.New("mp3: bitrate not supported by MPEG audio layer III")
	ErrUnsupportedChannels   = errors.New("mp3: only mono and stereo can be encoded")
	ErrChannelLengthMismatch = errors.New("mp3: channels hold different sample counts")
	ErrBlockTooLarge         = errors.New("mp3: more than 1152 samples per channel in one call")
	ErrEncoderClosed         = errors.New("mp3: encoder already flushed")
	ErrNoOutput              = errors.New("mp3: encoder produced no output")
	ErrInvalidStream         = errors.New("mp3: not a decodable MPEG audio stream")
)
