package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/interp"
)

const (
	minRate = 0.25
	maxRate = 4.0

	identityTolerance = 1e-9
)

// ErrInvalidRate indicates a non-positive or non-finite rate.
var ErrInvalidRate = errors.New("resample: rate must be finite and > 0")

// Interpolation selects the kernel used between input frames.
type Interpolation = interp.Mode

const (
	// InterpolationLinear interpolates between the two neighbouring frames.
	InterpolationLinear = interp.ModeLinear
	// InterpolationHermite uses the 4-point cubic Hermite kernel.
	InterpolationHermite = interp.ModeHermite
)

type config struct {
	mode      interp.Mode
	antiAlias bool
	quality   Quality
}

// Option configures a RateTransposer.
type Option func(*config)

// WithInterpolation selects the interpolation kernel.
// Unknown kernels are ignored.
func WithInterpolation(mode Interpolation) Option {
	return func(cfg *config) {
		if mode == InterpolationLinear || mode == InterpolationHermite {
			cfg.mode = mode
		}
	}
}

// WithAntiAlias replaces interpolation by a polyphase FIR resampler of the
// given quality whenever the rate differs from 1. The rate is approximated
// as a ratio of integers and the filter restarts when the rate changes.
func WithAntiAlias(q Quality) Option {
	return func(cfg *config) {
		cfg.antiAlias = true
		cfg.quality = q
	}
}

// RateTransposer reads its input at positions 0, rate, 2*rate, ... and
// interpolates between neighbouring frames. A rate above 1 shortens the
// signal and raises its pitch.
type RateTransposer struct {
	channels int
	rate     float64
	mode     interp.Mode
	before   int
	after    int

	// hist holds the trailing frames of the previous call, pos the next
	// read position measured in hist ++ src coordinates.
	hist [][]float64
	pos  float64

	ext  [][]float64
	idx  []int
	frac []float64

	antiAlias bool
	quality   Quality
	aa        *antiAlias
}

// NewRateTransposer returns a transposer at rate 1.
func NewRateTransposer(channels int, opts ...Option) (*RateTransposer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", buffer.ErrInvalidChannels, channels)
	}

	cfg := config{mode: InterpolationLinear}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	before, after := cfg.mode.Taps()
	r := &RateTransposer{
		channels: channels,
		rate:     1,
		mode:     cfg.mode,
		before:   before,
		after:    after,
		hist:     make([][]float64, channels),
		ext:      make([][]float64, channels),

		antiAlias: cfg.antiAlias,
		quality:   cfg.quality,
	}
	for c := range r.hist {
		r.hist[c] = make([]float64, before+after+1)
	}
	r.Reset()
	return r, nil
}

// SetRate sets the playback rate ratio, clamped to [0.25, 4].
func (r *RateTransposer) SetRate(rate float64) error {
	if !core.IsFinitePositive(rate) {
		return fmt.Errorf("%w: %f", ErrInvalidRate, rate)
	}
	rate = core.Clamp(rate, minRate, maxRate)
	if core.NearlyEqual(rate, 1, identityTolerance) {
		rate = 1
	}

	switch {
	case !r.antiAlias || rate == 1:
		r.aa = nil
	case r.aa == nil || r.aa.rate != rate:
		aa, err := newAntiAlias(r.channels, rate, r.quality)
		if err != nil {
			return err
		}
		r.aa = aa
	}
	r.rate = rate
	return nil
}

// Rate returns the current rate.
func (r *RateTransposer) Rate() float64 { return r.rate }

// Channels returns the channel count.
func (r *RateTransposer) Channels() int { return r.channels }

// Interpolation returns the configured kernel.
func (r *RateTransposer) Interpolation() Interpolation { return r.mode }

// Latency returns the number of input frames held back between calls.
func (r *RateTransposer) Latency() int {
	if r.aa != nil {
		return int(math.Ceil(r.aa.stages[0].Delay()))
	}
	return r.after + 1
}

// Transpose resamples src and returns a new block of roughly
// src.Len()/Rate() frames. src is not modified.
//
// With reverse set the block is walked from its last frame to its first;
// the output follows the walk order and the frame retained for the next
// call is the block's first frame.
func (r *RateTransposer) Transpose(src *buffer.Frames, reverse bool) (*buffer.Frames, error) {
	if src == nil {
		return buffer.NewFrames(r.channels, 0), nil
	}
	if src.Channels() != r.channels {
		return nil, fmt.Errorf("%w: got %d, want %d", buffer.ErrChannelMismatch, src.Channels(), r.channels)
	}

	if reverse {
		src = src.Clone()
		for c := 0; c < src.Channels(); c++ {
			core.Reverse(src.Channel(c))
		}
	}
	if r.aa != nil {
		return r.aa.process(src), nil
	}
	return r.process(src, math.Inf(1)), nil
}

// Flush releases the frames held back by the kernel by feeding silence,
// returns the remaining output and resets the transposer for a new stream.
func (r *RateTransposer) Flush() *buffer.Frames {
	if r.aa != nil {
		out := r.aa.flush()
		r.Reset()
		return out
	}
	silence := buffer.NewFrames(r.channels, r.after+1)
	// Positions before len(hist) still fall inside real input.
	out := r.process(silence, float64(len(r.hist[0])))
	r.Reset()
	return out
}

// Reset clears history and read position.
func (r *RateTransposer) Reset() {
	for _, h := range r.hist {
		core.Zero(h)
	}
	r.pos = float64(len(r.hist[0]))
	if r.aa != nil {
		r.aa.reset()
	}
}

func (r *RateTransposer) process(src *buffer.Frames, limit float64) *buffer.Frames {
	h := len(r.hist[0])
	total := h + src.Len()
	last := total - 2 - r.after

	r.idx = r.idx[:0]
	r.frac = r.frac[:0]
	t := r.pos
	for t < limit {
		i := int(t)
		if i > last {
			break
		}
		r.idx = append(r.idx, i)
		r.frac = append(r.frac, t-float64(i))
		t += r.rate
	}

	out := buffer.NewFrames(r.channels, len(r.idx))
	bypass := r.rate == 1 && len(r.frac) > 0 && r.frac[0] == 0

	for c := range r.hist {
		e := core.EnsureLen(r.ext[c], total)
		copy(e, r.hist[c])
		copy(e[h:], src.Channel(c))
		r.ext[c] = e

		dst := out.Channel(c)
		if bypass {
			copy(dst, e[r.idx[0]:])
		} else {
			for k, i := range r.idx {
				dst[k] = r.mode.At(e, i, r.frac[k])
			}
		}
		copy(r.hist[c], e[total-h:])
	}

	r.pos = t - float64(total-h)
	return out
}
