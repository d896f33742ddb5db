// Package config loads settings for the instrs command.
//
// Values are resolved in order: built-in defaults, then the YAML file named
// by --config (if any), then explicitly set flags. The file is optional;
// there is no discovery of default locations.
package config

import (
	"os"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/spencerwhite/instrs/codec"
	"github.com/spencerwhite/instrs/errors"
	"github.com/spencerwhite/instrs/isa"
	"github.com/spencerwhite/instrs/wire"
)

// Output formats accepted by Format.
const (
	FormatText = "text"
	FormatHex  = "hex"
	FormatCBOR = "cbor"
)

// Config holds command settings.
type Config struct {
	// Size is the size witness for length prefixes: u8, u16, u32, u64 or u128.
	// Producer and consumer must agree on it.
	Size string `yaml:"size"`

	// Format selects how decoded programs are printed: text, hex or cbor.
	Format string `yaml:"format"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// MaxLength caps the element count of any decoded sequence.
	MaxLength int `yaml:"max_length"`

	// MaxDepth caps how deeply records and variants may nest.
	MaxDepth int `yaml:"max_depth"`

	// StepLimit bounds the instructions executed by "run". Zero disables it.
	StepLimit int `yaml:"step_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Size:      "u32",
		Format:    FormatText,
		LogLevel:  "warn",
		MaxLength: codec.DefaultMaxLength,
		MaxDepth:  codec.DefaultMaxDepth,
		StepLimit: isa.DefaultStepLimit,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config "+strconv.Quote(path))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config "+strconv.Quote(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := wire.ParseSize(c.Size); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatHex, FormatCBOR:
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("format").
			Value(c.Format).
			Detail("format must be one of: text, hex, cbor").
			Build()
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log_level")
	}
	if c.MaxLength <= 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("max_length").
			Value(c.MaxLength).
			Detail("max_length must be positive").
			Build()
	}
	if c.MaxDepth <= 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("max_depth").
			Value(c.MaxDepth).
			Detail("max_depth must be positive").
			Build()
	}
	if c.StepLimit < 0 {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("step_limit").
			Value(c.StepLimit).
			Detail("step_limit must not be negative").
			Build()
	}
	return nil
}

// WireSize returns the parsed size witness. Call Validate first.
func (c *Config) WireSize() wire.Size {
	s, _ := wire.ParseSize(c.Size)
	return s
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() zapcore.Level {
	l, _ := zapcore.ParseLevel(c.LogLevel)
	return l
}

// CompilerOptions returns the codec options the settings imply.
func (c *Config) CompilerOptions() []codec.Option {
	return []codec.Option{
		codec.WithMaxLength(c.MaxLength),
		codec.WithMaxDepth(c.MaxDepth),
	}
}
