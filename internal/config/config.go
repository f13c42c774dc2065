// Package config loads process settings for the stretch tools from the
// environment, optionally seeded from a .env file.
package config

import (
	"math"
	"os"
	"strconv"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/resample"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/joho/godotenv"
	"github.com/ossrs/go-oryx-lib/errors"
)

// Config holds runtime settings. Zero window sizes keep the engine defaults,
// an empty AntiAlias keeps the interpolating transposer.
type Config struct {
	Tempo float64
	Pitch float64
	Rate  float64

	BlockSize  int
	SeekWindow int
	Slope      int
	Seek       int
	AntiAlias  string

	Workers  int
	BitDepth int
}

// Load reads envFile when it is not empty, then the STRETCH_* variables.
// Variables already set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrapf(err, "load %v", envFile)
		}
	}

	cfg := &Config{
		Tempo:      envFloat("STRETCH_TEMPO", 1),
		Pitch:      envFloat("STRETCH_PITCH", 1),
		Rate:       envFloat("STRETCH_RATE", 1),
		BlockSize:  envInt("STRETCH_BLOCK_SIZE", core.DefaultProcessorConfig().BlockSize),
		SeekWindow: envInt("STRETCH_SEEK_WINDOW", 0),
		Slope:      envInt("STRETCH_SLOPE", 0),
		Seek:       envInt("STRETCH_SEEK", 0),
		AntiAlias:  os.Getenv("STRETCH_ANTI_ALIAS"),
		Workers:    envInt("STRETCH_WORKERS", 2),
		BitDepth:   envInt("STRETCH_BIT_DEPTH", 16),
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validate")
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{"tempo": c.Tempo, "pitch": c.Pitch, "rate": c.Rate} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("%v must be finite and > 0, got %v", name, v)
		}
	}
	if c.BlockSize <= 0 {
		return errors.Errorf("block size must be > 0, got %v", c.BlockSize)
	}
	if c.SeekWindow < 0 || c.Slope < 0 || c.Seek < 0 {
		return errors.Errorf("window sizes must be >= 0, got window=%v slope=%v seek=%v",
			c.SeekWindow, c.Slope, c.Seek)
	}
	if c.AntiAlias != "" {
		if _, err := resample.ParseQuality(c.AntiAlias); err != nil {
			return errors.Wrapf(err, "anti-alias")
		}
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be > 0, got %v", c.Workers)
	}
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		return errors.Errorf("bit depth must be 16, 24 or 32, got %v", c.BitDepth)
	}
	return nil
}

// StretchOptions returns the engine options for the configured window sizes
// and anti-alias quality.
func (c *Config) StretchOptions() []stretch.Option {
	var opts []stretch.Option
	if c.SeekWindow > 0 {
		opts = append(opts, stretch.WithSeekWindowSize(c.SeekWindow))
	}
	if c.Slope > 0 {
		opts = append(opts, stretch.WithSlopeSize(c.Slope))
	}
	if c.Seek > 0 {
		opts = append(opts, stretch.WithSeekSize(c.Seek))
	}
	if q, err := resample.ParseQuality(c.AntiAlias); err == nil {
		opts = append(opts, stretch.WithAntiAlias(q))
	}
	return opts
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
