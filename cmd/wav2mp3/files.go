// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/ik5/wav2mp3/id3"
)

var (
	errOutputExists     = errors.New("output exists, use -overwrite to replace it")
	errUnsupportedCover = errors.New("unsupported cover image")
)

var coverTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// loadCover reads an image file and checks that it decodes.
func loadCover(path string) (*id3.Picture, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return nil, err
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), coverTypes...) {
		return nil, fmt.Errorf("%w: %s", errUnsupportedCover, mt.String())
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", errUnsupportedCover, err)
	}

	return &id3.Picture{MIMEType: mt.String(), Data: data}, nil
}

// outputPath replaces the extension of in with ext and moves it to dir when
// dir is set.
func outputPath(in, dir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ext
	if dir == "" {
		dir = filepath.Dir(in)
	}

	return filepath.Join(dir, base)
}

// writeFileAtomic writes through a temp file in the destination directory
// and renames it over path, so a failed write leaves any existing file
// untouched.
func writeFileAtomic(path string, overwrite bool, write func(io.Writer) error) (err error) {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errOutputExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wav2mp3-*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
