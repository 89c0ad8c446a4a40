// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
)

// Kind classifies why a WAV byte stream could not be decoded.
type Kind int

// Decode failure kinds. The set is closed; every error returned by Decode
// carries exactly one of them.
const (
	KindUnknown Kind = iota
	KindMalformedContainer
	KindMissingChunk
	KindTruncatedChunk
	KindUnsupportedFormat
	KindUnsupportedBitDepth
	KindInvalidFrameLayout
)

var (
	// ErrMalformedContainer indicates the RIFF/WAVE header is missing or wrong.
	ErrMalformedContainer = errors.New("malformed RIFF/WAVE container")

	// ErrMissingChunk indicates the "fmt " or "data" chunk was never found.
	ErrMissingChunk = errors.New("missing required chunk")

	// ErrTruncatedChunk indicates a chunk extends past the end of the input.
	ErrTruncatedChunk = errors.New("truncated chunk")

	// ErrUnsupportedFormat indicates an unknown format tag or an
	// unresolvable extensible sub-format.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")

	// ErrUnsupportedBitDepth indicates a bit depth the sample encoding does not allow.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")

	// ErrInvalidFrameLayout indicates a zero-sized sample frame.
	ErrInvalidFrameLayout = errors.New("invalid frame layout")

	// ErrNoChannels is returned by WritePCM16 when given no channel data.
	ErrNoChannels = errors.New("no channels to write")

	// ErrChannelLengthMismatch is returned by WritePCM16 when channels differ in length.
	ErrChannelLengthMismatch = errors.New("channels have different lengths")
)

var kindSentinels = map[Kind]error{
	KindMalformedContainer:  ErrMalformedContainer,
	KindMissingChunk:        ErrMissingChunk,
	KindTruncatedChunk:      ErrTruncatedChunk,
	KindUnsupportedFormat:   ErrUnsupportedFormat,
	KindUnsupportedBitDepth: ErrUnsupportedBitDepth,
	KindInvalidFrameLayout:  ErrInvalidFrameLayout,
}

func (k Kind) String() string {
	switch k {
	case KindMalformedContainer:
		return "MalformedContainer"
	case KindMissingChunk:
		return "MissingChunk"
	case KindTruncatedChunk:
		return "TruncatedChunk"
	case KindUnsupportedFormat:
		return "UnsupportedFormat"
	case KindUnsupportedBitDepth:
		return "UnsupportedBitDepth"
	case KindInvalidFrameLayout:
		return "InvalidFrameLayout"
	default:
		return "Unknown"
	}
}

// DecodeError describes a decode failure and where in the input it happened.
type DecodeError struct {
	Kind   Kind
	Offset int // byte offset into the input
	Detail string
}

func (e *DecodeError) Error() string {
	msg := "wav: decode failed"
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		msg = "wav: " + sentinel.Error()
	}

	return fmt.Sprintf("%s at offset %d: %s", msg, e.Offset, e.Detail)
}

// Unwrap exposes the sentinel for the error's kind so errors.Is works.
func (e *DecodeError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// KindOf reports the decode failure kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}

	return KindUnknown
}

func newError(kind Kind, offset int, format string, args ...any) error {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		Detail: fmt.Sprintf(format, args...),
	}
}
