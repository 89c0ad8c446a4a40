// SPDX-License-Identifier: EPL-2.0

// Package wav2mp3 converts WAV audio to tagged MP3 files.
//
// A Converter decodes a RIFF/WAVE byte stream with formats/wav, adapts the
// channel layout and sample rate to what an MP3 encoder accepts, encodes the
// audio and writes an ID3v2 tag in front of it:
//
//	conv := wav2mp3.NewConverter(logger)
//	out, err := conv.Convert(ctx, wavBytes, id3.Fields{
//	    Title:  "Intro",
//	    Artist: "Alice; Bob",
//	}, wav2mp3.DefaultOptions())
//
// Existing MP3 streams can be re-tagged without decoding the audio:
//
//	out, err := conv.Retag(ctx, mp3Bytes, fields, opts)
//
// # Pipeline
//
// Convert runs these stages:
//   - wav.Decode parses the container and normalizes every sample to [-1, 1]
//   - audio.NewMonoMixer folds the input to mono when Options.Mono is set or
//     the input has more than two channels
//   - audio.NewResampler moves rates the encoder cannot take to the nearest
//     MPEG rate
//   - audio.ReadPlanar16 converts to 16-bit PCM, one slice per channel
//   - mp3.EncodeFrames feeds the encoder 1152 samples per channel at a time
//
// The tag is built by id3.Build while the audio is encoded. Any failure
// returns an error and no output.
//
// # Encoders
//
// Converter.NewEncoder selects the MP3 encoder. The default is the pure Go
// shine port behind mp3.NewShineEncoder. Any mp3.EncoderFactory works.
package wav2mp3
