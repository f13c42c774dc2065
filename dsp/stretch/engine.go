package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/resample"
)

// Engine routes audio through a RateTransposer and then a Stretcher.
//
// Controls:
//   - tempo: forwarded to the Stretcher, duration only
//   - pitch: transposer rate, duration and pitch together
//   - rate: multiplied with pitch into the transposer rate
//
// Raising tempo and pitch by the same factor and setting rate to 1/pitch
// changes speed while keeping pitch; DurationRatio reports the combined
// effect on length.
type Engine struct {
	channels   int
	sampleRate float64
	pitch      float64
	rate       float64

	transposer *resample.RateTransposer
	stretcher  *Stretcher
}

// NewEngine returns an Engine with all controls at 1.
func NewEngine(channels int, sampleRate float64, opts ...Option) (*Engine, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate must be finite and > 0: %f", ErrInvalidParameters, sampleRate)
	}
	stretcher, err := NewStretcher(channels, opts...)
	if err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	topts := append([]resample.Option{resample.WithInterpolation(cfg.interpolation)}, cfg.transposerOpts...)
	transposer, err := resample.NewRateTransposer(channels, topts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		channels:   channels,
		sampleRate: sampleRate,
		pitch:      1,
		rate:       1,
		transposer: transposer,
		stretcher:  stretcher,
	}, nil
}

// Channels returns the channel count.
func (e *Engine) Channels() int { return e.channels }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Tempo returns the stretcher tempo.
func (e *Engine) Tempo() float64 { return e.stretcher.Tempo() }

// Pitch returns the pitch ratio.
func (e *Engine) Pitch() float64 { return e.pitch }

// PitchSemitones returns the pitch ratio in semitones.
func (e *Engine) PitchSemitones() float64 { return 12 * math.Log2(e.pitch) }

// Rate returns the rate control.
func (e *Engine) Rate() float64 { return e.rate }

// EffectiveRate returns the transposer rate, pitch*rate after clamping.
func (e *Engine) EffectiveRate() float64 { return e.transposer.Rate() }

// DurationRatio returns input length divided by output length.
func (e *Engine) DurationRatio() float64 {
	return e.stretcher.Tempo() * e.transposer.Rate()
}

// OutputLength returns the frame count a full run over inputFrames yields.
func (e *Engine) OutputLength(inputFrames int) int {
	if inputFrames <= 0 {
		return 0
	}
	return int(math.Floor(float64(inputFrames)/e.DurationRatio() + 1e-9))
}

// Stretcher exposes the time-stretch stage.
func (e *Engine) Stretcher() *Stretcher { return e.stretcher }

// SetTempo sets the pitch-preserving speed ratio, clamped to [0.25, 4].
func (e *Engine) SetTempo(tempo float64) error {
	return e.stretcher.SetTempo(tempo)
}

// SetPitch sets the pitch ratio, clamped to [0.25, 4].
func (e *Engine) SetPitch(pitch float64) error {
	if !core.IsFinitePositive(pitch) {
		return fmt.Errorf("%w: pitch must be finite and > 0: %f", ErrInvalidParameters, pitch)
	}
	return e.applyRate(core.Clamp(pitch, minTempo, maxTempo), e.rate)
}

// SetPitchSemitones sets the pitch ratio as 2^(semitones/12).
func (e *Engine) SetPitchSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("%w: semitones must be finite: %f", ErrInvalidParameters, semitones)
	}
	return e.SetPitch(math.Pow(2, semitones/12))
}

// SetRate sets the rate control, clamped to [0.25, 4].
func (e *Engine) SetRate(rate float64) error {
	if !core.IsFinitePositive(rate) {
		return fmt.Errorf("%w: rate must be finite and > 0: %f", ErrInvalidParameters, rate)
	}
	return e.applyRate(e.pitch, core.Clamp(rate, minTempo, maxTempo))
}

func (e *Engine) applyRate(pitch, rate float64) error {
	if err := e.transposer.SetRate(pitch * rate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	e.pitch = pitch
	e.rate = rate
	return nil
}

// Put feeds frames through the transposer into the stretcher.
func (e *Engine) Put(frames *buffer.Frames) error {
	transposed, err := e.transposer.Transpose(frames, false)
	if err != nil {
		return err
	}
	return e.stretcher.Put(transposed)
}

// Get removes and returns up to n output frames.
func (e *Engine) Get(n int) *buffer.Frames { return e.stretcher.Get(n) }

// Available returns the number of output frames ready for Get.
func (e *Engine) Available() int { return e.stretcher.Available() }

// Flush drains the transposer into the stretcher and flushes the stretcher.
// As with Stretcher.Flush, the output may end in padded silence.
func (e *Engine) Flush() error {
	if err := e.stretcher.Put(e.transposer.Flush()); err != nil {
		return err
	}
	return e.stretcher.Flush()
}

// Clear empties the stretcher's queues. The transposer keeps its phase and
// history; use Reset to clear both.
func (e *Engine) Clear() { e.stretcher.Clear() }

// Reset clears the stretcher and the transposer.
func (e *Engine) Reset() {
	e.stretcher.Clear()
	e.transposer.Reset()
}
