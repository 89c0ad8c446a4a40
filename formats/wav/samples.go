// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"math"

	goaudio "github.com/go-audio/audio"
)

const (
	scalePCMInt8  = 128.0
	scalePCMInt16 = 32768.0
	scalePCMInt24 = 8388608.0
	scalePCMInt32 = 2147483648.0

	muLawBias = 0x84
)

// sampleFunc maps the bytes of one stored sample to a value in [-1, 1].
type sampleFunc func(b []byte) float32

// sampleDecoder picks the mapping for the encoding and bit depth in f.
func sampleDecoder(f Format, offset int) (sampleFunc, error) {
	switch f.Encoding {
	case EncodingPCM:
		switch f.BitsPerSample {
		case 8:
			return decodeUint8, nil
		case 16:
			return decodeInt16, nil
		case 24:
			return decodeInt24, nil
		case 32:
			return decodeInt32, nil
		}
	case EncodingFloat:
		switch f.BitsPerSample {
		case 32:
			return decodeFloat32, nil
		case 64:
			return decodeFloat64, nil
		}
	case EncodingALaw:
		if f.BitsPerSample == 8 {
			return decodeALaw, nil
		}
	case EncodingMuLaw:
		if f.BitsPerSample == 8 {
			return decodeMuLaw, nil
		}
	}

	return nil, newError(KindUnsupportedBitDepth, offset, "%d-bit %s", f.BitsPerSample, f.Encoding)
}

// 8-bit WAV samples are unsigned with 128 as the zero line.
func decodeUint8(b []byte) float32 {
	return clamp((float32(b[0]) - 128) / scalePCMInt8)
}

func decodeInt16(b []byte) float32 {
	return clamp(float32(int16(binary.LittleEndian.Uint16(b))) / scalePCMInt16)
}

func decodeInt24(b []byte) float32 {
	return clamp(float32(goaudio.Int24LETo32(b)) / scalePCMInt24)
}

func decodeInt32(b []byte) float32 {
	return clamp(float32(float64(int32(binary.LittleEndian.Uint32(b))) / scalePCMInt32))
}

func decodeFloat32(b []byte) float32 {
	return clamp(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func decodeFloat64(b []byte) float32 {
	return clamp(float32(math.Float64frombits(binary.LittleEndian.Uint64(b))))
}

func decodeALaw(b []byte) float32 {
	return float32(expandALaw(b[0])) / scalePCMInt16
}

func decodeMuLaw(b []byte) float32 {
	return float32(expandMuLaw(b[0])) / scalePCMInt16
}

// expandMuLaw expands a G.711 mu-law code to 16-bit linear PCM.
func expandMuLaw(code byte) int16 {
	v := ^code
	exponent := (v >> 4) & 0x07
	mantissa := int(v & 0x0F)

	sample := ((mantissa << 3) + muLawBias) << exponent
	sample -= muLawBias

	if v&0x80 != 0 {
		sample = -sample
	}

	return int16(sample)
}

// expandALaw expands a G.711 A-law code to 16-bit linear PCM.
func expandALaw(code byte) int16 {
	v := code ^ 0x55
	exponent := (v >> 4) & 0x07
	mantissa := int(v & 0x0F)

	sample := mantissa<<4 + 8
	if exponent > 0 {
		sample = (sample + 0x100) << (exponent - 1)
	}

	// A-law stores the sign bit inverted.
	if v&0x80 == 0 {
		sample = -sample
	}

	return int16(sample)
}

func clamp(v float32) float32 {
	switch {
	case v != v: // NaN
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
