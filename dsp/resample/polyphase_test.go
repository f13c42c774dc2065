package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stretch/internal/testutil"
)

func TestNewRationalValidation(t *testing.T) {
	if _, err := NewRational(0, 1, QualityBalanced); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("NewRational(0, 1) error = %v, want ErrInvalidRatio", err)
	}
	if _, err := NewRational(1, -2, QualityBalanced); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("NewRational(1, -2) error = %v, want ErrInvalidRatio", err)
	}
	if _, err := NewForRate(math.NaN(), QualityFast); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("NewForRate(NaN) error = %v, want ErrInvalidRate", err)
	}
}

func TestRatioReduction(t *testing.T) {
	r, err := NewRational(320, 294, QualityFast)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	if up, down := r.Ratio(); up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
}

func TestNewForRate(t *testing.T) {
	tests := []struct {
		rate     float64
		up, down int
	}{
		{rate: 2, up: 1, down: 2},
		{rate: 0.5, up: 2, down: 1},
		{rate: 1.5, up: 2, down: 3},
		{rate: 44100.0 / 48000.0, up: 160, down: 147},
	}
	for _, tc := range tests {
		r, err := NewForRate(tc.rate, QualityBalanced)
		if err != nil {
			t.Fatalf("NewForRate(%v) error = %v", tc.rate, err)
		}
		if up, down := r.Ratio(); up != tc.up || down != tc.down {
			t.Fatalf("NewForRate(%v) ratio = %d/%d, want %d/%d", tc.rate, up, down, tc.up, tc.down)
		}
	}
}

func TestQualityProfileTaps(t *testing.T) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		r, err := NewRational(1, 2, q)
		if err != nil {
			t.Fatalf("NewRational() error = %v", err)
		}
		if r.TapsPerPhase() != QualityProfile(q).TapsPerPhase {
			t.Fatalf("quality %d: taps = %d, want %d", q, r.TapsPerPhase(), QualityProfile(q).TapsPerPhase)
		}
		if r.Quality() != q {
			t.Fatalf("Quality() = %d, want %d", r.Quality(), q)
		}
	}
}

func TestResamplerDCGain(t *testing.T) {
	r, err := NewRational(3, 2, QualityBalanced)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	in := make([]float64, 2000)
	for i := range in {
		in[i] = 0.5
	}
	out := r.Process(in)
	for i := 200; i < len(out)-200; i++ {
		if math.Abs(out[i]-0.5) > 1e-3 {
			t.Fatalf("out[%d] = %v, want 0.5", i, out[i])
		}
	}
}

func TestResamplerBlockIndependence(t *testing.T) {
	in := testutil.DeterministicSine(1000, 48000, 0.7, 3001)

	whole, err := NewRational(2, 3, QualityBalanced)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	ref := whole.Process(in)

	split, err := NewRational(2, 3, QualityBalanced)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	var got []float64
	for start := 0; start < len(in); start += 97 {
		got = append(got, split.Process(in[start:min(start+97, len(in))])...)
	}

	if len(got) != len(ref) {
		t.Fatalf("len = %d, want %d", len(got), len(ref))
	}
	d, err := testutil.MaxAbsDiff(got, ref)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if d > 1e-12 {
		t.Fatalf("max diff = %g", d)
	}
}

func TestApproximateRatio(t *testing.T) {
	if num, den := approximateRatio(math.Pi, 1000); num != 355 || den != 113 {
		t.Fatalf("approximateRatio(pi) = %d/%d, want 355/113", num, den)
	}
	if num, den := approximateRatio(-1, 10); num != 1 || den != 1 {
		t.Fatalf("approximateRatio(-1) = %d/%d, want 1/1", num, den)
	}
}

func TestParseQuality(t *testing.T) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		got, err := ParseQuality(q.String())
		if err != nil {
			t.Fatalf("ParseQuality(%q) error = %v", q.String(), err)
		}
		if got != q {
			t.Fatalf("ParseQuality(%q) = %v, want %v", q.String(), got, q)
		}
	}
	if _, err := ParseQuality("ultra"); !errors.Is(err, ErrUnknownQuality) {
		t.Fatalf("ParseQuality(ultra) error = %v, want ErrUnknownQuality", err)
	}
}
