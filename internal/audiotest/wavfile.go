// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Chunk is a raw RIFF chunk placed verbatim into a WAVFile.
type Chunk struct {
	ID   string
	Data []byte
}

// WAVFile describes a synthetic RIFF/WAVE byte stream for tests. The zero
// value of each optional field yields a canonical file.
type WAVFile struct {
	FormatTag     uint16 // 1 PCM, 3 float, 0xFFFE extensible
	SubFormat     uint16 // extensible only
	Channels      int
	SampleRate    int
	BitsPerSample int
	Data          []byte

	// FmtExtra is appended to the 16 standard fmt bytes of non-extensible
	// files, cbSize included.
	FmtExtra []byte

	Before  []Chunk // before "fmt "
	Between []Chunk // between "fmt " and "data"
	After   []Chunk // after "data"

	OmitFmt  bool
	OmitData bool
	DataLast bool // write "data" before "fmt "
}

// Bytes serializes the file.
func (w WAVFile) Bytes() []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	for _, c := range w.Before {
		writeChunk(body, c.ID, c.Data)
	}

	fmtChunk := func() {
		if !w.OmitFmt {
			writeChunk(body, "fmt ", w.fmtPayload())
		}
		for _, c := range w.Between {
			writeChunk(body, c.ID, c.Data)
		}
	}
	dataChunk := func() {
		if !w.OmitData {
			writeChunk(body, "data", w.Data)
		}
	}

	if w.DataLast {
		dataChunk()
		fmtChunk()
	} else {
		fmtChunk()
		dataChunk()
	}

	for _, c := range w.After {
		writeChunk(body, c.ID, c.Data)
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func (w WAVFile) fmtPayload() []byte {
	tag := w.FormatTag
	if tag == 0 {
		tag = 1
	}

	blockAlign := w.Channels * w.BitsPerSample / 8

	b := new(bytes.Buffer)
	binary.Write(b, binary.LittleEndian, tag)
	binary.Write(b, binary.LittleEndian, uint16(w.Channels))
	binary.Write(b, binary.LittleEndian, uint32(w.SampleRate))
	binary.Write(b, binary.LittleEndian, uint32(w.SampleRate*blockAlign))
	binary.Write(b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(b, binary.LittleEndian, uint16(w.BitsPerSample))

	if tag == 0xFFFE {
		binary.Write(b, binary.LittleEndian, uint16(22))
		binary.Write(b, binary.LittleEndian, uint16(w.BitsPerSample))
		binary.Write(b, binary.LittleEndian, uint32(0))
		b.Write(SubFormatGUID(w.SubFormat))
	} else {
		b.Write(w.FmtExtra)
	}

	return b.Bytes()
}

// SubFormatGUID builds the KSDATAFORMAT GUID carrying formatTag.
func SubFormatGUID(formatTag uint16) []byte {
	guid := make([]byte, 16)
	binary.LittleEndian.PutUint16(guid[0:2], formatTag)
	copy(guid[4:], []byte{0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})

	return guid
}

func writeChunk(b *bytes.Buffer, id string, data []byte) {
	b.WriteString(id)
	binary.Write(b, binary.LittleEndian, uint32(len(data)))
	b.Write(data)

	if len(data)%2 == 1 {
		b.WriteByte(0)
	}
}

// PCM16 encodes samples as little-endian 16-bit PCM.
func PCM16(samples ...int16) []byte {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}

	return b
}

// PCM24 encodes samples as little-endian 24-bit PCM.
func PCM24(samples ...int32) []byte {
	b := make([]byte, 0, 3*len(samples))
	for _, s := range samples {
		b = append(b, byte(s), byte(s>>8), byte(s>>16))
	}

	return b
}

// PCM32 encodes samples as little-endian 32-bit PCM.
func PCM32(samples ...int32) []byte {
	b := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(s))
	}

	return b
}

// Float32LE encodes samples as little-endian IEEE-754 singles.
func Float32LE(samples ...float32) []byte {
	b := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(s))
	}

	return b
}

// Float64LE encodes samples as little-endian IEEE-754 doubles.
func Float64LE(samples ...float64) []byte {
	b := make([]byte, 8*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(s))
	}

	return b
}

// SineWAV16 renders frames of a sine tone as a 16-bit PCM WAV with the same
// signal on every channel.
func SineWAV16(sampleRate, channels, frames int, frequency float64) []byte {
	samples := make([]int16, 0, frames*channels)
	for i := range frames {
		v := int16(math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)) * 16000)
		for range channels {
			samples = append(samples, v)
		}
	}

	return WAVFile{
		Channels:      channels,
		SampleRate:    sampleRate,
		BitsPerSample: 16,
		Data:          PCM16(samples...),
	}.Bytes()
}
