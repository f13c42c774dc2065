package interp

import (
	"math"
	"testing"
)

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinear2(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("Linear2 got %v want 2.5", got)
	}
	if got := Linear2(0, -1, 1); got != -1 {
		t.Fatalf("Linear2 at t=0 got %v want -1", got)
	}
}

func TestModeAtMatchesKernels(t *testing.T) {
	x := []float64{0.1, 0.7, -0.3, 0.4, 0.9}

	if got, want := ModeLinear.At(x, 1, 0.3), Linear2(0.3, 0.7, -0.3); got != want {
		t.Fatalf("linear At = %v, want %v", got, want)
	}
	if got, want := ModeHermite.At(x, 1, 0.3), Hermite4(0.3, 0.1, 0.7, -0.3, 0.4); got != want {
		t.Fatalf("hermite At = %v, want %v", got, want)
	}
}

func TestModeTaps(t *testing.T) {
	tests := []struct {
		mode          Mode
		before, after int
		name          string
	}{
		{mode: ModeLinear, before: 0, after: 0, name: "linear"},
		{mode: ModeHermite, before: 1, after: 1, name: "hermite"},
	}
	for _, tt := range tests {
		b, a := tt.mode.Taps()
		if b != tt.before || a != tt.after {
			t.Fatalf("%v Taps() = (%d, %d), want (%d, %d)", tt.mode, b, a, tt.before, tt.after)
		}
		if tt.mode.String() != tt.name {
			t.Fatalf("String() = %q, want %q", tt.mode.String(), tt.name)
		}
	}
}

func TestHermiteReproducesSineBetterThanLinear(t *testing.T) {
	const step = 2 * math.Pi / 16
	x := make([]float64, 8)
	for i := range x {
		x[i] = math.Sin(step * float64(i))
	}

	want := math.Sin(step * 3.5)
	linErr := math.Abs(ModeLinear.At(x, 3, 0.5) - want)
	herErr := math.Abs(ModeHermite.At(x, 3, 0.5) - want)
	if herErr >= linErr {
		t.Fatalf("hermite error %g should be below linear error %g", herErr, linErr)
	}
}
