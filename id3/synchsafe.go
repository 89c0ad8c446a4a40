// SPDX-License-Identifier: EPL-2.0

package id3

import "fmt"

// MaxSize is the largest value a synchsafe integer can hold.
const MaxSize = 1<<28 - 1

// EncodeSynchsafe stores n in four bytes of seven bits each, most
// significant first. The top bit of every byte is zero.
func EncodeSynchsafe(n uint32) ([4]byte, error) {
	if n > MaxSize {
		return [4]byte{}, fmt.Errorf("%w: %d", ErrTagTooLarge, n)
	}

	return [4]byte{
		byte(n >> 21 & 0x7F),
		byte(n >> 14 & 0x7F),
		byte(n >> 7 & 0x7F),
		byte(n & 0x7F),
	}, nil
}

// DecodeSynchsafe is the inverse of EncodeSynchsafe. High bits are ignored.
func DecodeSynchsafe(b [4]byte) uint32 {
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}
