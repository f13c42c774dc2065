// Package time computes level statistics of a sampled signal: RMS, peak,
// DC offset, crest factor and zero crossings.
package time

import (
	"math"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Stats holds time-domain level statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max(|x|)
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS
	CrestFactor_dB float64
	ZeroCrossings  int
}

// Calculate returns all statistics of signal. dB fields are -Inf for
// silence.
func Calculate(signal []float64) Stats {
	rms := RMS(signal)
	peak := Peak(signal)
	crest := CrestFactor(signal)

	crestdB := 0.0
	if crest > 0 {
		crestdB = core.LinearToDB(crest)
	}

	return Stats{
		Length:         len(signal),
		DC:             DC(signal),
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Peak:           peak,
		Peak_dB:        core.LinearToDB(peak),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		ZeroCrossings:  ZeroCrossings(signal),
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// DC returns the mean of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	// Kahan summation.
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum / float64(len(signal))
}

// Peak returns the largest absolute sample value.
func Peak(signal []float64) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = max(peak, math.Abs(x))
	}
	return peak
}

// CrestFactor returns peak / RMS, or 0 for silence.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}
	return Peak(signal) / r
}

// ZeroCrossings returns the number of sign changes between consecutive
// samples. Samples that are exactly zero do not count as a change.
func ZeroCrossings(signal []float64) int {
	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}
	return count
}

// RisingCrossings returns the fractional sample positions at which the
// signal rises through zero, linearly interpolated between samples.
func RisingCrossings(signal []float64) []float64 {
	var at []float64
	for i := 1; i < len(signal); i++ {
		a, b := signal[i-1], signal[i]
		if a < 0 && b >= 0 {
			at = append(at, float64(i-1)+a/(a-b))
		}
	}
	return at
}
