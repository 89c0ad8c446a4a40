// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/wav2mp3/audio"
	"github.com/ik5/wav2mp3/formats/wav"
	"github.com/ik5/wav2mp3/internal/audiotest"
)

func countSamples(src audio.Source) (int, error) {
	buf := make([]float32, 4096)
	total := 0

	for {
		n, err := src.ReadSamples(buf)
		total += n

		if errors.Is(err, io.EOF) {
			return total, nil
		}

		if err != nil {
			return total, err
		}
	}
}

// Example_resampler converts one second of 48 kHz audio to 16 kHz.
func Example_resampler() {
	source := audiotest.NewSineSource(48000, 1, 48000, 440)
	resampler := audio.NewResampler(source, 16000)

	n, err := countSamples(resampler)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(resampler.SampleRate(), resampler.Channels(), n)
	// Output: 16000 1 16000
}

// Example_monoMixer folds a stereo stream into one channel.
func Example_monoMixer() {
	source := audiotest.NewMockSource(8000, 2, 4, func(_, ch int) float32 {
		return []float32{0.5, -0.25}[ch]
	})

	mono := audio.NewMonoMixer(source)

	buf := make([]float32, 4)
	n, _ := mono.ReadSamples(buf)

	fmt.Println(mono.Channels(), buf[:n])
	// Output: 1 [0.125 0.125 0.125 0.125]
}

// Example_encoderFrontEnd prepares decoded audio for an MP3 encoder: mono,
// a legal sample rate and planar 16-bit samples.
func Example_encoderFrontEnd() {
	data := audiotest.SineWAV16(12345, 2, 12345, 440)

	decoded, err := wav.Decode(data)
	if err != nil {
		fmt.Println(err)
		return
	}

	var src audio.Source = decoded.Source()
	src = audio.NewMonoMixer(src)
	src = audio.NewResampler(src, 24000)

	planar, err := audio.ReadPlanar16(src)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(len(planar), len(planar[0]) >= 23999)
	// Output: 1 true
}

// Example_registry picks a decoder by file extension.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("wav", wav.Decoder{})

	src, err := registry.Decode(".WAV", bytes.NewReader(audiotest.SineWAV16(8000, 1, 800, 440)))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	_, err = registry.Decode("ogg", bytes.NewReader(nil))

	fmt.Println(registry.Formats(), src.SampleRate(), errors.Is(err, audio.ErrUnknownFormat))
	// Output: [wav] 8000 true
}
