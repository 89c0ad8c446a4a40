// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/wav2mp3/utils"
)

// samples per buffered write
const writeChunkSize = 8192

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.  samples must be int16 PCM.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	if err := writePCM16Header(w, sampleRate, 1, len(samples)); err != nil {
		return err
	}

	buf := make([]byte, 2*min(len(samples), writeChunkSize))

	for i := 0; i < len(samples); i += writeChunkSize {
		chunk := samples[i:min(i+writeChunkSize, len(samples))]
		out := buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// WritePCM16 writes planar normalized samples as an interleaved 16-bit PCM
// WAV. Every channel must hold the same number of samples.
func WritePCM16(w io.Writer, sampleRate int, channels [][]float32) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return ErrChannelLengthMismatch
		}
	}

	numChannels := len(channels)
	if err := writePCM16Header(w, sampleRate, numChannels, frames*numChannels); err != nil {
		return err
	}

	framesPerWrite := max(1, writeChunkSize/numChannels)
	buf := make([]byte, 2*numChannels*min(frames, framesPerWrite))

	for start := 0; start < frames; start += framesPerWrite {
		end := min(start+framesPerWrite, frames)
		out := buf[:2*numChannels*(end-start)]

		pos := 0
		for f := start; f < end; f++ {
			for _, ch := range channels {
				binary.LittleEndian.PutUint16(out[pos:], uint16(utils.Float32ToInt16(ch[f])))
				pos += 2
			}
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// writePCM16Header writes the 44-byte canonical header for totalSamples
// 16-bit samples across numChannels.
func writePCM16Header(w io.Writer, sampleRate, numChannels, totalSamples int) error {
	const bitsPerSample = 16

	blockAlign := uint16(numChannels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)
	dataSize := uint32(totalSamples * 2)

	header := make([]byte, riffHeaderSize+chunkHeaderSize+fmtMinSize+chunkHeaderSize)

	copy(header[0:4], riffID)
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], waveID)

	copy(header[12:16], fmtID)
	binary.LittleEndian.PutUint32(header[16:20], fmtMinSize)
	binary.LittleEndian.PutUint16(header[20:22], formatTagPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], dataID)
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
