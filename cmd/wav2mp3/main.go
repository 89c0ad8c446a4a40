// SPDX-License-Identifier: EPL-2.0

// Command wav2mp3 converts WAV files to tagged MP3 files and re-tags
// existing MP3 files.
//
//	wav2mp3 -title "Intro" -artist "Alice; Bob" -cover front.jpg song.wav
//	wav2mp3 -replace-tag -overwrite -album "Live" take1.mp3
//	wav2mp3 -info song.wav take1.mp3
//
// Every flag can also be set through a WAV2MP3_* environment variable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/wav2mp3"
	"github.com/ik5/wav2mp3/formats/wav"
	"github.com/ik5/wav2mp3/id3"
	"github.com/ik5/wav2mp3/internal/config"
	"github.com/ik5/wav2mp3/internal/logger"
)

var errUnsupportedInput = errors.New("unsupported input, want .wav or .mp3")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, "wav2mp3:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Writer:      stderr,
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	if cfg.Info {
		return printInfo(stdout, cfg.Inputs)
	}

	fields, err := tagFields(cfg.Tag)
	if err != nil {
		return err
	}

	b := &batch{
		conv: wav2mp3.NewConverter(log.Logger),
		log:  log,
		cfg:  cfg,
		opts: wav2mp3.Options{
			Bitrate:    cfg.Encode.Bitrate,
			Version:    id3.Version(cfg.Encode.ID3Version),
			Mono:       cfg.Encode.Mono,
			ReplaceTag: cfg.Encode.ReplaceTag,
		},
		fields: fields,
	}

	return b.run(ctx, cfg.Inputs)
}

func tagFields(tc config.TagConfig) (id3.Fields, error) {
	fields := id3.Fields{
		Title:       tc.Title,
		Artist:      tc.Artist,
		Album:       tc.Album,
		AlbumArtist: tc.AlbumArtist,
		Year:        tc.Year,
		Track:       tc.Track,
		Genre:       tc.Genre,
	}

	if tc.Cover != "" {
		pic, err := loadCover(tc.Cover)
		if err != nil {
			return id3.Fields{}, fmt.Errorf("cover %s: %w", tc.Cover, err)
		}

		fields.Cover = pic
	}

	return fields, nil
}

// batch processes input files concurrently. A failing file does not stop
// the others; all failures are reported together.
type batch struct {
	conv   *wav2mp3.Converter
	log    *logger.Logger
	cfg    *config.Config
	opts   wav2mp3.Options
	fields id3.Fields

	mtx  sync.Mutex
	errs []error
}

func (b *batch) run(ctx context.Context, inputs []string) error {
	g := new(errgroup.Group)
	g.SetLimit(b.cfg.Output.Concurrency)

	for _, in := range inputs {
		g.Go(func() error {
			if err := b.process(ctx, in); err != nil {
				b.log.WithFile(in).WithError(err).Error("conversion failed")
				b.fail(fmt.Errorf("%s: %w", in, err))
			}

			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(b.errs...)
}

func (b *batch) fail(err error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.errs = append(b.errs, err)
}

func (b *batch) process(ctx context.Context, in string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(in))
	if ext != ".wav" && ext != ".mp3" {
		return errUnsupportedInput
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	var out []byte

	switch ext {
	case ".wav":
		out, err = b.conv.Convert(ctx, data, b.fields, b.opts)
	case ".mp3":
		out, err = b.conv.Retag(ctx, data, b.fields, b.opts)
	}

	if err != nil {
		return err
	}

	outPath := outputPath(in, b.cfg.Output.Dir, ".mp3")

	if err := writeFileAtomic(outPath, b.cfg.Output.Overwrite, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	}); err != nil {
		return err
	}

	b.log.WithFile(in).Info("wrote mp3", "output", outPath, "bytes", len(out))

	if ext == ".wav" && b.cfg.PCM16 {
		return b.writePCM16(in, data)
	}

	return nil
}

// writePCM16 stores the decoded input as canonical 16-bit WAV next to the
// MP3 output.
func (b *batch) writePCM16(in string, data []byte) error {
	decoded, err := wav.Decode(data)
	if err != nil {
		return err
	}

	outPath := outputPath(in, b.cfg.Output.Dir, ".pcm16.wav")

	if err := writeFileAtomic(outPath, b.cfg.Output.Overwrite, func(w io.Writer) error {
		return wav.WritePCM16(w, decoded.Format.SampleRate, decoded.Channels)
	}); err != nil {
		return err
	}

	b.log.WithFile(in).Info("wrote pcm16 wav", "output", outPath)

	return nil
}
