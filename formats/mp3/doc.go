// SPDX-License-Identifier: EPL-2.0

// Package mp3 encodes 16-bit PCM to MP3 and reads MP3 streams back.
//
// # Encoding
//
// Encoders implement Encoder and are created through an EncoderFactory so
// callers can swap the implementation. NewShineEncoder wraps the pure Go
// shine encoder. EncodeFrames drives any Encoder with planar samples:
//
//	enc, err := mp3.NewShineEncoder(2, 44100, mp3.DefaultBitrate)
//	if err != nil {
//	    return err
//	}
//	stream, err := mp3.EncodeFrames(enc, [][]int16{left, right})
//
// Only the MPEG sample rates in SupportedSampleRates can be encoded; use
// NearestSampleRate to pick a resampling target.
//
// # Decoding
//
// Decoder uses github.com/hajimehoshi/go-mp3 and yields an audio.Source of
// interleaved stereo samples in [-1, 1]. Probe validates a complete stream in
// memory and reports its rate and length. StripID3v2 removes a leading tag.
package mp3
