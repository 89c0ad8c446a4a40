// SPDX-License-Identifier: EPL-2.0

package wav2mp3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/wav2mp3/audio"
	"github.com/ik5/wav2mp3/formats/mp3"
	"github.com/ik5/wav2mp3/formats/wav"
	"github.com/ik5/wav2mp3/id3"
)

var validate = validator.New()

// Options controls a conversion.
type Options struct {
	// Bitrate in kbps, one of mp3.Bitrates.
	Bitrate int `validate:"oneof=32 40 48 56 64 80 96 112 128 160 192 224 256 320"`
	// Version of the ID3v2 tag written in front of the audio.
	Version id3.Version `validate:"oneof=3 4"`
	// Mono folds stereo input to one channel. Input with more than two
	// channels is always folded.
	Mono bool
	// ReplaceTag drops a leading ID3v2 tag from MP3 input before re-tagging.
	// Without it the old tag stays behind the new one.
	ReplaceTag bool
}

// DefaultOptions returns 128 kbps with an ID3v2.4 tag.
func DefaultOptions() Options {
	return Options{Bitrate: mp3.DefaultBitrate, Version: id3.V24}
}

// Validate reports every invalid field, wrapped in ErrInvalidOptions.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %v is not one of %s", fe.Field(), fe.Value(), fe.Param()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

// Converter turns WAV audio into tagged MP3 files and re-tags existing MP3
// streams. The zero value encodes with shine and does not log.
type Converter struct {
	NewEncoder mp3.EncoderFactory
	Logger     *slog.Logger
}

// NewConverter returns a Converter using the shine encoder.
func NewConverter(logger *slog.Logger) *Converter {
	return &Converter{
		NewEncoder: mp3.NewShineEncoder,
		Logger:     logger,
	}
}

func (c *Converter) log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return c.Logger
}

func (c *Converter) factory() mp3.EncoderFactory {
	if c.NewEncoder == nil {
		return mp3.NewShineEncoder
	}

	return c.NewEncoder
}

// Convert decodes wavData, encodes it to MP3 and prefixes the stream with a
// tag built from fields. Tag building runs alongside encoding. Nothing is
// returned unless every stage succeeds.
func (c *Converter) Convert(ctx context.Context, wavData []byte, fields id3.Fields, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	decoded, err := wav.Decode(wavData)
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}

	c.log().DebugContext(ctx, "decoded wav",
		slog.String("format", decoded.Format.String()),
		slog.Int("frames", decoded.FrameCount()),
		slog.Duration("duration", decoded.Duration()),
	)

	if decoded.FrameCount() == 0 {
		return nil, ErrNoAudio
	}

	var tag, stream []byte

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		tag, err = id3.Build(fields, opts.Version)
		if err != nil {
			return fmt.Errorf("building tag: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		stream, err = c.encode(gctx, decoded, opts)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.log().DebugContext(ctx, "encoded mp3",
		slog.Int("tag_bytes", len(tag)),
		slog.Int("stream_bytes", len(stream)),
	)

	return concat(tag, stream), nil
}

// encode runs decoded through the mixer and resampler the encoder needs and
// returns the MP3 stream.
func (c *Converter) encode(ctx context.Context, decoded *wav.DecodedAudio, opts Options) ([]byte, error) {
	src := decoded.Source()
	defer src.Close()

	channels := src.Channels()
	if channels > 2 || (opts.Mono && channels > 1) {
		src = audio.NewMonoMixer(src)
	}

	if rate := src.SampleRate(); !mp3.IsSupportedSampleRate(rate) {
		target := mp3.NearestSampleRate(rate)

		c.log().DebugContext(ctx, "resampling",
			slog.Int("from_hz", rate),
			slog.Int("to_hz", target),
		)

		src = audio.NewResampler(src, target)
	}

	planar, err := audio.ReadPlanar16(src)
	if err != nil {
		return nil, fmt.Errorf("converting samples: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if kbps := mp3.FitBitrate(src.SampleRate(), opts.Bitrate); kbps != opts.Bitrate {
		c.log().DebugContext(ctx, "bitrate above the MPEG version limit",
			slog.Int("requested_kbps", opts.Bitrate),
			slog.Int("max_kbps", kbps),
		)
	}

	enc, err := c.factory()(len(planar), src.SampleRate(), opts.Bitrate)
	if err != nil {
		return nil, fmt.Errorf("creating encoder: %w", err)
	}

	stream, err := mp3.EncodeFrames(enc, planar)
	if err != nil {
		return nil, fmt.Errorf("encoding mp3: %w", err)
	}

	return stream, nil
}

// Retag prefixes an existing MP3 stream with a tag built from fields. The
// stream must decode; its audio bytes are copied unchanged.
func (c *Converter) Retag(ctx context.Context, mp3Data []byte, fields id3.Fields, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	info, err := mp3.Probe(mp3Data)
	if err != nil {
		return nil, fmt.Errorf("reading mp3: %w", err)
	}

	stream := mp3Data
	if opts.ReplaceTag {
		stream = mp3Data[info.TagSize:]
	}

	c.log().DebugContext(ctx, "retagging mp3",
		slog.Int("sample_rate", info.SampleRate),
		slog.Duration("duration", info.Duration),
		slog.Int("old_tag_bytes", info.TagSize),
		slog.Bool("replace", opts.ReplaceTag),
	)

	tag, err := id3.Build(fields, opts.Version)
	if err != nil {
		return nil, fmt.Errorf("building tag: %w", err)
	}

	return concat(tag, stream), nil
}

func concat(tag, stream []byte) []byte {
	out := make([]byte, 0, len(tag)+len(stream))
	out = append(out, tag...)

	return append(out, stream...)
}
