// SPDX-License-Identifier: EPL-2.0

// Package config loads the wav2mp3 command configuration from command-line
// flags and WAV2MP3_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "WAV2MP3_"

// ErrNoInputs is returned when no input file is given.
var ErrNoInputs = errors.New("no input files")

// Config holds the command configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Encode EncodeConfig
	Output OutputConfig
	Tag    TagConfig

	// Info prints stream details instead of converting.
	Info bool
	// PCM16 also writes the decoded WAV input as canonical 16-bit PCM.
	PCM16 bool

	Inputs []string `flag:"input" validate:"min=1,dive,required"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `flag:"env" validate:"required,oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `flag:"log-level" validate:"required,oneof=debug info warn warning error"`
	Format string `flag:"log-format" validate:"omitempty,oneof=json text"`
}

// EncodeConfig holds encoder and tag layout settings.
type EncodeConfig struct {
	Bitrate    int  `flag:"bitrate" validate:"oneof=32 40 48 56 64 80 96 112 128 160 192 224 256 320"`
	ID3Version int  `flag:"id3" validate:"oneof=3 4"`
	Mono       bool `flag:"mono"`
	ReplaceTag bool `flag:"replace-tag"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	// Dir receives the output files; empty means next to each input.
	Dir         string `flag:"out" validate:"omitempty,dir"`
	Overwrite   bool   `flag:"overwrite"`
	Concurrency int    `flag:"jobs" validate:"min=1,max=64"`
}

// TagConfig holds the ID3 fields applied to every output. Artist, album
// artist and genre may list several values separated by ';'.
type TagConfig struct {
	Title       string `flag:"title"`
	Artist      string `flag:"artist"`
	Album       string `flag:"album"`
	AlbumArtist string `flag:"album-artist"`
	Year        string `flag:"year" validate:"omitempty,max=10"`
	Track       string `flag:"track" validate:"omitempty,max=16"`
	Genre       string `flag:"genre"`
	Cover       string `flag:"cover" validate:"omitempty,file"`
}

// Load builds a Config with the precedence flags > environment > defaults.
// args excludes the program name. Output for -h goes to out.
func Load(args []string, out io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("wav2mp3", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: wav2mp3 [flags] <file.wav|file.mp3>...\n\n")
		fs.PrintDefaults()
	}

	fs.String("env", "", "Environment (development, staging, production)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-format", "", "Log format (json, text); defaults by environment")

	fs.Int("bitrate", 0, "MP3 bitrate in kbps (default 128)")
	fs.Int("id3", 0, "ID3v2 minor version, 3 or 4 (default 4)")
	fs.Bool("mono", false, "Down-mix to mono before encoding")
	fs.Bool("replace-tag", false, "Drop an existing ID3v2 tag when re-tagging MP3 input")

	fs.String("out", "", "Output directory (default: next to the input)")
	fs.Bool("overwrite", false, "Replace existing output files")
	fs.Int("jobs", 0, "Files processed concurrently (default 4)")

	fs.String("title", "", "Title")
	fs.String("artist", "", "Artist; separate several with ';'")
	fs.String("album", "", "Album")
	fs.String("album-artist", "", "Album artist; separate several with ';'")
	fs.String("year", "", "Year or recording date")
	fs.String("track", "", "Track number, e.g. 3 or 3/12")
	fs.String("genre", "", "Genre; separate several with ';'")
	fs.String("cover", "", "Path to a JPEG, PNG, GIF or WebP cover image")

	fs.Bool("info", false, "Print stream details and exit")
	fs.Bool("pcm16", false, "Also write the decoded WAV as 16-bit PCM (.pcm16.wav)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(set["env"], "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(set["log-level"], "LOG_LEVEL", "info"),
			Format: getConfigValue(set["log-format"], "LOG_FORMAT", ""),
		},
		Encode: EncodeConfig{
			Bitrate:    getIntConfigValue(set["bitrate"], "BITRATE", 128),
			ID3Version: getIntConfigValue(set["id3"], "ID3_VERSION", 4),
			Mono:       getBoolConfigValue(set["mono"], "MONO", false),
			ReplaceTag: getBoolConfigValue(set["replace-tag"], "REPLACE_TAG", false),
		},
		Output: OutputConfig{
			Dir:         getConfigValue(set["out"], "OUT_DIR", ""),
			Overwrite:   getBoolConfigValue(set["overwrite"], "OVERWRITE", false),
			Concurrency: getIntConfigValue(set["jobs"], "JOBS", 4),
		},
		Tag: TagConfig{
			Title:       getConfigValue(set["title"], "TITLE", ""),
			Artist:      getConfigValue(set["artist"], "ARTIST", ""),
			Album:       getConfigValue(set["album"], "ALBUM", ""),
			AlbumArtist: getConfigValue(set["album-artist"], "ALBUM_ARTIST", ""),
			Year:        getConfigValue(set["year"], "YEAR", ""),
			Track:       getConfigValue(set["track"], "TRACK", ""),
			Genre:       getConfigValue(set["genre"], "GENRE", ""),
			Cover:       getConfigValue(set["cover"], "COVER", ""),
		},
		Info:   getBoolConfigValue(set["info"], "INFO", false),
		PCM16:  getBoolConfigValue(set["pcm16"], "PCM16", false),
		Inputs: fs.Args(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report problems by flag name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})

	return v
}

// Validate checks every field against its constraints and reports all
// problems at once.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputs
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, "-"+fe.Field()+" "+friendlyMessage(fe))
	}

	return errors.New(strings.Join(msgs, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s (got %v)", fe.Param(), fe.Value())
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param()
	case "file":
		return fmt.Sprintf("%q is not a readable file", fe.Value())
	case "dir":
		return fmt.Sprintf("%q is not a directory", fe.Value())
	default:
		return "is invalid"
	}
}

// getConfigValue returns the first non-empty value from flag, env var, or
// default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(EnvPrefix + envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (any case) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	s := getConfigValue(flagValue, envKey, "")
	if s == "" {
		return defaultValue
	}

	s = strings.ToLower(s)

	return s == "true" || s == "1" || s == "yes"
}

// getIntConfigValue falls back to the default when the value is not a number.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	s := getConfigValue(flagValue, envKey, "")
	if s == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return n
}
