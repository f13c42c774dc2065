package tone

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/spectrum"
	"github.com/cwbudde/algo-stretch/dsp/window"
	timestats "github.com/cwbudde/algo-stretch/stats/time"
)

var (
	// ErrEmpty indicates an input with too few samples to measure.
	ErrEmpty = errors.New("tone: signal too short")
	// ErrLengthMismatch indicates signals of differing lengths.
	ErrLengthMismatch = errors.New("tone: length mismatch")
)

// DominantFrequency returns the frequency in Hz of the strongest spectral
// peak. The signal is Hann windowed, zero padded to a power of two and the
// peak bin is refined by parabolic interpolation.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	if !core.IsFinitePositive(sampleRate) {
		return 0, fmt.Errorf("tone: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if len(signal) < 4 {
		return 0, ErrEmpty
	}

	taper, err := window.Hann(len(signal))
	if err != nil {
		return 0, err
	}
	tapered := append([]float64(nil), signal...)
	if err := window.ApplyCoefficientsInPlace(tapered, taper); err != nil {
		return 0, err
	}

	fftSize := core.NextPowerOf2(len(signal))
	in := make([]complex128, fftSize)
	for i, v := range tapered {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("tone: failed to create FFT plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("tone: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	mag := spectrum.Magnitude(out[:bins])

	peak := 1
	for k := 2; k < bins-1; k++ {
		if mag[k] > mag[peak] {
			peak = k
		}
	}
	if mag[peak] == 0 {
		return 0, nil
	}

	delta := 0.0
	if peak > 0 && peak < bins-1 {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		if d := a - 2*b + c; d != 0 {
			delta = 0.5 * (a - c) / d
		}
	}

	return (float64(peak) + delta) * sampleRate / float64(fftSize), nil
}

// ZeroCrossingFrequency estimates the frequency of a near-sinusoidal signal
// from the spacing of its rising zero crossings, interpolated between
// samples. It returns 0 when fewer than two rising crossings exist.
func ZeroCrossingFrequency(signal []float64, sampleRate float64) (float64, error) {
	if !core.IsFinitePositive(sampleRate) {
		return 0, fmt.Errorf("tone: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if len(signal) < 2 {
		return 0, ErrEmpty
	}

	at := timestats.RisingCrossings(signal)
	if len(at) < 2 {
		return 0, nil
	}
	first, last := at[0], at[len(at)-1]
	if last <= first {
		return 0, nil
	}
	return float64(len(at)-1) * sampleRate / (last - first), nil
}

// RMS returns the root-mean-square level of signal, or 0 for empty input.
func RMS(signal []float64) float64 { return timestats.RMS(signal) }

// RMSDiff returns the RMS of a-b.
func RMSDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}
	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	return timestats.RMS(diff), nil
}
