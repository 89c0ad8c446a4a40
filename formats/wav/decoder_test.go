// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/wav2mp3/internal/audiotest"
)

func pcmFile(channels, bits int, data []byte) audiotest.WAVFile {
	return audiotest.WAVFile{
		Channels:      channels,
		SampleRate:    8000,
		BitsPerSample: bits,
		Data:          data,
	}
}

func TestDecode_Mono16(t *testing.T) {
	t.Parallel()

	raw := []int16{0, 1, -1, 100, -100, math.MaxInt16, math.MinInt16, 12345}
	decoded, err := Decode(pcmFile(1, 16, audiotest.PCM16(raw...)).Bytes())
	require.NoError(t, err)

	require.Len(t, decoded.Channels, 1)
	require.Equal(t, len(raw), decoded.FrameCount())

	for i, v := range raw {
		assert.InDelta(t, float64(v)/32768, decoded.Channels[0][i], 1e-7, "sample %d", i)
	}

	assert.Equal(t, EncodingPCM, decoded.Format.Encoding)
	assert.Equal(t, 8000, decoded.Format.SampleRate)
	assert.Equal(t, 2, decoded.Format.BlockAlign)
	assert.Equal(t, 16000, decoded.Format.ByteRate)
}

func TestDecode_StereoDeinterleaves(t *testing.T) {
	t.Parallel()

	decoded, err := Decode(pcmFile(2, 16, audiotest.PCM16(100, -200, 300, -400, 500, -600)).Bytes())
	require.NoError(t, err)

	require.Len(t, decoded.Channels, 2)
	assert.InDeltaSlice(t, []float32{100.0 / 32768, 300.0 / 32768, 500.0 / 32768}, decoded.Channels[0], 1e-7)
	assert.InDeltaSlice(t, []float32{-200.0 / 32768, -400.0 / 32768, -600.0 / 32768}, decoded.Channels[1], 1e-7)
}

func TestDecode_TrailingPartialFrameDropped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		bits     int
		dataLen  int
		want     int
	}{
		{"16-bit stereo, 7 bytes", 2, 16, 7, 1},
		{"16-bit mono, 5 bytes", 1, 16, 5, 2},
		{"24-bit stereo, 11 bytes", 2, 24, 11, 1},
		{"32-bit mono, 3 bytes", 1, 32, 3, 0},
		{"8-bit 3ch, 10 bytes", 3, 8, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decoded, err := Decode(pcmFile(tt.channels, tt.bits, make([]byte, tt.dataLen)).Bytes())
			require.NoError(t, err)
			assert.Equal(t, tt.want, decoded.FrameCount())
			require.Len(t, decoded.Channels, tt.channels)

			for _, ch := range decoded.Channels {
				assert.Len(t, ch, tt.want)
			}
		})
	}
}

func TestDecode_IntegerDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bits int
		data []byte
		want []float32
	}{
		{
			name: "8-bit unsigned",
			bits: 8,
			data: []byte{0, 64, 128, 255},
			want: []float32{-1, -0.5, 0, 127.0 / 128},
		},
		{
			name: "24-bit most negative",
			bits: 24,
			data: []byte{0x00, 0x00, 0x80},
			want: []float32{-1},
		},
		{
			name: "24-bit mixed",
			bits: 24,
			data: audiotest.PCM24(8388607, -4194304, 1),
			want: []float32{8388607.0 / 8388608, -0.5, 1.0 / 8388608},
		},
		{
			name: "32-bit",
			bits: 32,
			data: audiotest.PCM32(math.MinInt32, 1<<30, 0),
			want: []float32{-1, 0.5, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decoded, err := Decode(pcmFile(1, tt.bits, tt.data).Bytes())
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, decoded.Channels[0], 1e-7)
		})
	}
}

func TestDecode_24BitMostNegativeIsExact(t *testing.T) {
	t.Parallel()

	decoded, err := Decode(pcmFile(1, 24, []byte{0x00, 0x00, 0x80}).Bytes())
	require.NoError(t, err)
	assert.Equal(t, float32(-1.0), decoded.Channels[0][0])
}

func TestDecode_Float(t *testing.T) {
	t.Parallel()

	t.Run("32-bit as-is", func(t *testing.T) {
		t.Parallel()

		file := audiotest.WAVFile{
			FormatTag: 3, Channels: 1, SampleRate: 44100, BitsPerSample: 32,
			Data: audiotest.Float32LE(0.25, -0.75, 1, -1),
		}

		decoded, err := Decode(file.Bytes())
		require.NoError(t, err)
		assert.Equal(t, EncodingFloat, decoded.Format.Encoding)
		assert.Equal(t, []float32{0.25, -0.75, 1, -1}, decoded.Channels[0])
	})

	t.Run("64-bit narrowed", func(t *testing.T) {
		t.Parallel()

		file := audiotest.WAVFile{
			FormatTag: 3, Channels: 2, SampleRate: 44100, BitsPerSample: 64,
			Data: audiotest.Float64LE(0.1, -0.1, 0.5, -0.5),
		}

		decoded, err := Decode(file.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []float32{float32(0.1), 0.5}, decoded.Channels[0])
		assert.Equal(t, []float32{float32(-0.1), -0.5}, decoded.Channels[1])
	})

	t.Run("out of range clamped", func(t *testing.T) {
		t.Parallel()

		file := audiotest.WAVFile{
			FormatTag: 3, Channels: 1, SampleRate: 44100, BitsPerSample: 32,
			Data: audiotest.Float32LE(1.5, -3, float32(math.NaN()), float32(math.Inf(1))),
		}

		decoded, err := Decode(file.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []float32{1, -1, 0, 1}, decoded.Channels[0])
	})
}

func TestDecode_Extensible(t *testing.T) {
	t.Parallel()

	plain, err := Decode(pcmFile(2, 24, audiotest.PCM24(1000, -1000, 8388607, -8388608)).Bytes())
	require.NoError(t, err)

	ext := audiotest.WAVFile{
		FormatTag: 0xFFFE, SubFormat: 1, Channels: 2, SampleRate: 8000, BitsPerSample: 24,
		Data: audiotest.PCM24(1000, -1000, 8388607, -8388608),
	}

	decoded, err := Decode(ext.Bytes())
	require.NoError(t, err)

	assert.True(t, decoded.Format.Extensible())
	assert.Equal(t, EncodingPCM, decoded.Format.Encoding)
	assert.Equal(t, 24, decoded.Format.ValidBitsPerSample)
	assert.Equal(t, plain.Channels, decoded.Channels)

	floatExt := audiotest.WAVFile{
		FormatTag: 0xFFFE, SubFormat: 3, Channels: 1, SampleRate: 48000, BitsPerSample: 32,
		Data: audiotest.Float32LE(0.5, -0.25),
	}

	decoded, err = Decode(floatExt.Bytes())
	require.NoError(t, err)
	assert.Equal(t, EncodingFloat, decoded.Format.Encoding)
	assert.Equal(t, []float32{0.5, -0.25}, decoded.Channels[0])
}

func TestDecode_ExtensibleUnresolvable(t *testing.T) {
	t.Parallel()

	t.Run("sub-format not PCM or float", func(t *testing.T) {
		t.Parallel()

		file := audiotest.WAVFile{
			FormatTag: 0xFFFE, SubFormat: 6, Channels: 1, SampleRate: 8000, BitsPerSample: 8,
			Data: []byte{0xD5},
		}

		_, err := Decode(file.Bytes())
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("extension too short", func(t *testing.T) {
		t.Parallel()

		fmtPayload := make([]byte, 18+10)
		binary.LittleEndian.PutUint16(fmtPayload[0:], 0xFFFE)
		binary.LittleEndian.PutUint16(fmtPayload[2:], 1)
		binary.LittleEndian.PutUint32(fmtPayload[4:], 8000)
		binary.LittleEndian.PutUint16(fmtPayload[14:], 16)
		binary.LittleEndian.PutUint16(fmtPayload[16:], 10)

		file := audiotest.WAVFile{
			OmitFmt: true,
			Before:  []audiotest.Chunk{{ID: "fmt ", Data: fmtPayload}},
			Data:    audiotest.PCM16(1),
		}

		_, err := Decode(file.Bytes())
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("no extension at all", func(t *testing.T) {
		t.Parallel()

		fmtPayload := make([]byte, 16)
		binary.LittleEndian.PutUint16(fmtPayload[0:], 0xFFFE)
		binary.LittleEndian.PutUint16(fmtPayload[2:], 1)
		binary.LittleEndian.PutUint32(fmtPayload[4:], 8000)
		binary.LittleEndian.PutUint16(fmtPayload[14:], 16)

		file := audiotest.WAVFile{
			OmitFmt: true,
			Before:  []audiotest.Chunk{{ID: "fmt ", Data: fmtPayload}},
			Data:    audiotest.PCM16(1),
		}

		_, err := Decode(file.Bytes())
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestDecode_PlainTagExtensionSkipped(t *testing.T) {
	t.Parallel()

	// cbSize = 4 followed by four bytes that must not be interpreted.
	file := pcmFile(1, 16, audiotest.PCM16(-16384))
	file.FmtExtra = []byte{4, 0, 0xFF, 0xFF, 0xFF, 0xFF}

	decoded, err := Decode(file.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []float32{-0.5}, decoded.Channels[0])
}

func TestDecode_G711(t *testing.T) {
	t.Parallel()

	mulaw := audiotest.WAVFile{FormatTag: 7, Channels: 1, SampleRate: 8000, BitsPerSample: 8, Data: []byte{0xFF, 0x00, 0x80}}
	decoded, err := Decode(mulaw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, EncodingMuLaw, decoded.Format.Encoding)
	assert.InDeltaSlice(t, []float32{0, -32124.0 / 32768, 32124.0 / 32768}, decoded.Channels[0], 1e-7)

	alaw := audiotest.WAVFile{FormatTag: 6, Channels: 1, SampleRate: 8000, BitsPerSample: 8, Data: []byte{0xD5, 0x55, 0x2A}}
	decoded, err = Decode(alaw.Bytes())
	require.NoError(t, err)
	assert.Equal(t, EncodingALaw, decoded.Format.Encoding)
	assert.InDeltaSlice(t, []float32{8.0 / 32768, -8.0 / 32768, -32256.0 / 32768}, decoded.Channels[0], 1e-7)
}

func TestDecode_ChunkWalk(t *testing.T) {
	t.Parallel()

	t.Run("unknown chunks with odd sizes are skipped", func(t *testing.T) {
		t.Parallel()

		file := pcmFile(1, 16, audiotest.PCM16(1000, 2000))
		file.Before = []audiotest.Chunk{{ID: "LIST", Data: []byte("abc")}}
		file.Between = []audiotest.Chunk{{ID: "fact", Data: []byte{2, 0, 0, 0}}, {ID: "junk", Data: []byte{1}}}

		decoded, err := Decode(file.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 2, decoded.FrameCount())
	})

	t.Run("data before fmt", func(t *testing.T) {
		t.Parallel()

		file := pcmFile(1, 16, audiotest.PCM16(1000, 2000, 3000))
		file.DataLast = true

		decoded, err := Decode(file.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 3, decoded.FrameCount())
	})

	t.Run("stops after fmt and data", func(t *testing.T) {
		t.Parallel()

		data := pcmFile(1, 16, audiotest.PCM16(1)).Bytes()
		// A broken chunk after "data" is never visited.
		data = append(data, 'J', 'U', 'N', 'K', 0xFF, 0xFF, 0x00, 0x00, 1, 2)

		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, 1, decoded.FrameCount())
	})

	t.Run("missing final pad byte", func(t *testing.T) {
		t.Parallel()

		data := pcmFile(1, 8, []byte{128, 255, 0}).Bytes()
		data = data[:len(data)-1]

		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, 3, decoded.FrameCount())
	})

	t.Run("first fmt wins", func(t *testing.T) {
		t.Parallel()

		second := pcmFile(2, 8, nil).Bytes()
		file := pcmFile(1, 16, audiotest.PCM16(1, 2))
		// "fmt " payload of the second file starts after RIFF header + chunk header.
		file.Between = []audiotest.Chunk{{ID: "fmt ", Data: second[20:36]}}

		decoded, err := Decode(file.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 1, decoded.Format.Channels)
	})
}

func TestDecode_EmptyData(t *testing.T) {
	t.Parallel()

	decoded, err := Decode(pcmFile(2, 16, nil).Bytes())
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.FrameCount())
	assert.Len(t, decoded.Channels, 2)
	assert.Zero(t, decoded.Duration())
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	valid := pcmFile(1, 16, audiotest.PCM16(1, 2, 3)).Bytes()

	truncated := append([]byte(nil), valid...)
	truncated = truncated[:len(truncated)-2]

	badWave := append([]byte(nil), valid...)
	copy(badWave[8:12], "AVI ")

	shortFmt := audiotest.WAVFile{OmitFmt: true, Before: []audiotest.Chunk{{ID: "fmt ", Data: make([]byte, 14)}}}

	tests := []struct {
		name string
		data []byte
		want error
		kind Kind
	}{
		{"empty input", nil, ErrMalformedContainer, KindMalformedContainer},
		{"not RIFF", []byte("NOT A WAV FILE DATA"), ErrMalformedContainer, KindMalformedContainer},
		{"not WAVE", badWave, ErrMalformedContainer, KindMalformedContainer},
		{"header only", []byte("RIFF\x04\x00\x00\x00WAVE"), ErrMissingChunk, KindMissingChunk},
		{"no fmt", audiotest.WAVFile{OmitFmt: true, Data: audiotest.PCM16(1)}.Bytes(), ErrMissingChunk, KindMissingChunk},
		{"no data", audiotest.WAVFile{OmitData: true, Channels: 1, SampleRate: 8000, BitsPerSample: 16}.Bytes(), ErrMissingChunk, KindMissingChunk},
		{"data past end", truncated, ErrTruncatedChunk, KindTruncatedChunk},
		{"fmt too short", shortFmt.Bytes(), ErrTruncatedChunk, KindTruncatedChunk},
		{"unknown format tag", audiotest.WAVFile{FormatTag: 2, Channels: 1, SampleRate: 8000, BitsPerSample: 4}.Bytes(), ErrUnsupportedFormat, KindUnsupportedFormat},
		{"zero sample rate", audiotest.WAVFile{Channels: 1, BitsPerSample: 16}.Bytes(), ErrUnsupportedFormat, KindUnsupportedFormat},
		{"12-bit PCM", pcmFile(1, 12, nil).Bytes(), ErrUnsupportedBitDepth, KindUnsupportedBitDepth},
		{"16-bit float", audiotest.WAVFile{FormatTag: 3, Channels: 1, SampleRate: 8000, BitsPerSample: 16}.Bytes(), ErrUnsupportedBitDepth, KindUnsupportedBitDepth},
		{"16-bit mu-law", audiotest.WAVFile{FormatTag: 7, Channels: 1, SampleRate: 8000, BitsPerSample: 16}.Bytes(), ErrUnsupportedBitDepth, KindUnsupportedBitDepth},
		{"zero channels", pcmFile(0, 16, audiotest.PCM16(1)).Bytes(), ErrInvalidFrameLayout, KindInvalidFrameLayout},
		{"zero channels 12-bit", pcmFile(0, 12, audiotest.PCM16(1)).Bytes(), ErrInvalidFrameLayout, KindInvalidFrameLayout},
		{"4-bit PCM", pcmFile(1, 4, audiotest.PCM16(1)).Bytes(), ErrInvalidFrameLayout, KindInvalidFrameLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decoded, err := Decode(tt.data)
			require.Error(t, err)
			assert.Nil(t, decoded)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, KindOf(err))

			var de *DecodeError
			assert.ErrorAs(t, err, &de)
		})
	}
}

func TestDecode_ChunkLengthBeyondBuffer(t *testing.T) {
	t.Parallel()

	data := []byte("RIFF\x00\x00\x00\x00WAVE")
	data = append(data, "LIST"...)
	data = binary.LittleEndian.AppendUint32(data, math.MaxUint32)
	data = append(data, 1, 2, 3)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrTruncatedChunk)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 12, de.Offset)
}

func TestDecodedAudio_Duration(t *testing.T) {
	t.Parallel()

	decoded, err := Decode(audiotest.SineWAV16(8000, 2, 4000, 440))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, decoded.Duration())
}

func TestDecoder_Source(t *testing.T) {
	t.Parallel()

	data := pcmFile(2, 16, audiotest.PCM16(100, -100, 200, -200, 300, -300)).Bytes()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 8000, src.SampleRate())
	assert.Equal(t, 2, src.Channels())

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	assert.InDeltaSlice(t, []float32{100.0 / 32768, -100.0 / 32768, 200.0 / 32768, -200.0 / 32768}, buf, 1e-7)

	n, err = src.ReadSamples(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)

	n, err = src.ReadSamples(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)

	_, err = src.ReadSamples(make([]float32, 3))
	assert.Error(t, err)
}

func TestDecoder_ReaderError(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF")))
	require.ErrorIs(t, err, ErrMalformedContainer)
}

// writeGoAudioWAV encodes samples with go-audio/wav, an independent
// implementation, and returns the file bytes.
func writeGoAudioWAV(t *testing.T, bitDepth, channels int, samples []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := gowav.NewEncoder(f, 44100, bitDepth, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: 44100},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return data
}

func TestDecode_MatchesGoAudioEncoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits  int
		scale float64
		data  []int
	}{
		{16, 32768, []int{0, 1, -1, 32767, -32768, 1234, -4321, 77}},
		{24, 8388608, []int{0, 8388607, -8388608, 65536, -65536, 42}},
		{32, 2147483648, []int{0, 2147483647, -2147483648, 1 << 20, -(1 << 20), 9}},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			t.Parallel()

			decoded, err := Decode(writeGoAudioWAV(t, tt.bits, 2, tt.data))
			require.NoError(t, err)
			require.Equal(t, len(tt.data)/2, decoded.FrameCount())

			for i, v := range tt.data {
				got := decoded.Channels[i%2][i/2]
				assert.InDelta(t, float64(v)/tt.scale, got, 1e-7, "sample %d", i)
			}
		})
	}
}
