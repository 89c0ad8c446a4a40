// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files into normalized planar samples and
// writes 16-bit PCM WAV files.
//
// # Decoding
//
// Decode takes a complete file in memory:
//
//	data, _ := os.ReadFile("take1.wav")
//	decoded, err := wav.Decode(data)
//	if err != nil {
//	    // err is a *wav.DecodeError
//	}
//	left := decoded.Channels[0]
//
// Every sample is a float32 in [-1, 1]. Integer PCM is divided by 2^(bits-1)
// (8-bit files are unsigned and centred on 128), so the most negative code
// maps to exactly -1.0. Float files are clamped and NaN becomes 0.
//
// Supported encodings:
//   - integer PCM, 8/16/24/32 bit
//   - IEEE float, 32/64 bit
//   - G.711 A-law and mu-law, 8 bit
//   - WAVE_FORMAT_EXTENSIBLE with a PCM or float sub-format
//
// Chunks other than "fmt " and "data" are skipped, odd-sized chunks are padded
// to even length, and bytes after the last whole frame are dropped.
//
// Decoder wraps Decode for use as an audio.Decoder, streaming the samples
// interleaved through an audio.Source.
//
// # Errors
//
// Failures carry one of a closed set of kinds. Compare with errors.Is against
// ErrMalformedContainer, ErrMissingChunk, ErrTruncatedChunk,
// ErrUnsupportedFormat, ErrUnsupportedBitDepth or ErrInvalidFrameLayout, or
// read it with KindOf. DecodeError.Offset points at the offending bytes.
//
// # Writing
//
// WriteWAV16 writes mono int16 samples and WritePCM16 writes planar float
// samples of any channel count. Both emit the canonical 44-byte header.
package wav
