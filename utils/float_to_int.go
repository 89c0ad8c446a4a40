// SPDX-License-Identifier: EPL-2.0

package utils

const (
	int16NegScale = 32768.0
	int16PosScale = 32767.0
)

// Float32ToInt16 clamps x to [-1, 1] and scales it to 16-bit PCM.
// Negative values scale by 32768 and non-negative values by 32767, so both
// ends of the range map onto the full int16 span without overflow.
func Float32ToInt16(x float32) int16 {
	if x != x { // NaN
		return 0
	}

	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(x * int16NegScale)
	}

	return int16(x * int16PosScale)
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(v int16) float32 {
	if v < 0 {
		return float32(v) / int16NegScale
	}

	return float32(v) / int16PosScale
}
