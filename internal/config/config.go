// Package config loads pixbridge settings from an optional YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/ironsheep/pixbridge/internal/imaging"
)

// Environment variables read by Load.
const (
	EnvLogLevel = "PIXBRIDGE_LOG_LEVEL"
	EnvWorkers  = "PIXBRIDGE_WORKERS"
)

// Config holds the settings shared by the CLI and the MCP server.
type Config struct {
	// Workers is the number of transcode goroutines; 0 selects GOMAXPROCS.
	Workers int `yaml:"workers"`

	// IncludeAlpha keeps the Pix alpha byte when converting back to a bitmap.
	IncludeAlpha bool `yaml:"include_alpha"`

	// DPI is assigned to images whose file carries no resolution.
	DPI float64 `yaml:"dpi"`

	// Language is the default Tesseract language.
	Language string `yaml:"language"`

	// Preprocess is the default OCR preprocessing mode.
	Preprocess string `yaml:"preprocess"`

	// Threshold is the binarization level, 1 to 255.
	Threshold int `yaml:"threshold"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Workers:      0,
		IncludeAlpha: false,
		DPI:          300,
		Language:     "eng",
		Preprocess:   imaging.PreprocessNone,
		Threshold:    imaging.DefaultThreshold,
		LogLevel:     "info",
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path or a file that does not exist leaves the
// defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := cfg.decodeYAML(data); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeYAML overlays the keys present in data onto c. Scalars are weakly
// typed ("4" is accepted for an int) and unknown keys are rejected.
func (c *Config) decodeYAML(data []byte) error {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%s", strings.Join(typeErr.Errors, "; "))
		}
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.DPI < 0 {
		return fmt.Errorf("dpi must be >= 0, got %v", c.DPI)
	}
	if c.Threshold < 1 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be between 1 and 255, got %d", c.Threshold)
	}
	if !imaging.ValidPreprocess(c.Preprocess) {
		return fmt.Errorf("unknown preprocess mode %q", c.Preprocess)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level, info when it does not parse.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
