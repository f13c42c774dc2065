package tone

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/internal/testutil"
)

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name       string
		freq       float64
		sampleRate float64
		length     int
	}{
		{name: "440 at 44.1k", freq: 440, sampleRate: 44100, length: 22050},
		{name: "1k at 48k", freq: 1000, sampleRate: 48000, length: 8192},
		{name: "660 odd length", freq: 660, sampleRate: 44100, length: 29400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x := testutil.DeterministicSine(tc.freq, tc.sampleRate, 0.8, tc.length)
			got, err := DominantFrequency(x, tc.sampleRate)
			if err != nil {
				t.Fatalf("DominantFrequency() error = %v", err)
			}
			binHz := tc.sampleRate / float64(core.NextPowerOf2(tc.length))
			if math.Abs(got-tc.freq) > binHz/2 {
				t.Fatalf("DominantFrequency() = %.3f, want %.3f ± %.3f", got, tc.freq, binHz/2)
			}
		})
	}
}

func TestDominantFrequencyValidation(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2}, 44100); !errors.Is(err, ErrEmpty) {
		t.Fatalf("short input error = %v, want ErrEmpty", err)
	}
	if _, err := DominantFrequency(make([]float64, 16), 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	got, err := DominantFrequency(make([]float64, 16), 44100)
	if err != nil || got != 0 {
		t.Fatalf("silence = %v, %v; want 0, nil", got, err)
	}
}

func TestZeroCrossingFrequency(t *testing.T) {
	x := testutil.DeterministicSine(440, 44100, 0.5, 44100)
	got, err := ZeroCrossingFrequency(x, 44100)
	if err != nil {
		t.Fatalf("ZeroCrossingFrequency() error = %v", err)
	}
	if math.Abs(got-440) > 0.5 {
		t.Fatalf("ZeroCrossingFrequency() = %.3f, want 440", got)
	}

	got, err = ZeroCrossingFrequency(make([]float64, 100), 44100)
	if err != nil || got != 0 {
		t.Fatalf("silence = %v, %v; want 0, nil", got, err)
	}
}

func TestRMS(t *testing.T) {
	x := testutil.DeterministicSine(100, 48000, 1, 48000)
	if got := RMS(x); math.Abs(got-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS() = %v, want %v", got, 1/math.Sqrt2)
	}
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}

func TestRMSDiff(t *testing.T) {
	d, err := RMSDiff([]float64{1, 1, 1, 1}, []float64{0, 0, 0, 0})
	if err != nil || d != 1 {
		t.Fatalf("RMSDiff() = %v, %v; want 1, nil", d, err)
	}
	if _, err := RMSDiff([]float64{1}, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("RMSDiff() error = %v, want ErrLengthMismatch", err)
	}
}
