package window

import (
	"errors"
	"math"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		opts []Option
		want []float64
	}{
		{name: "rectangular", typ: TypeRectangular, want: []float64{1, 1, 1, 1}},
		{name: "hann", typ: TypeHann, want: []float64{0, 0.75, 0.75, 0}},
		{name: "hann periodic", typ: TypeHann, opts: []Option{WithPeriodic()}, want: []float64{0, 0.5, 1, 0.5}},
		{name: "hamming", typ: TypeHamming, want: []float64{0.08, 0.77, 0.77, 0.08}},
		{name: "blackman", typ: TypeBlackman, want: []float64{0, 0.63, 0.63, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Generate(tc.typ, len(tc.want), tc.opts...)
			for i, v := range tc.want {
				if math.Abs(got[i]-v) > 1e-12 {
					t.Fatalf("w[%d] = %v, want %v", i, got[i], v)
				}
			}
		})
	}
}

func TestGenerateEdgeLengths(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("Generate(0) should be nil")
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("Generate(1) = %v, want [0]", w)
	}
}

func TestHannSymmetric(t *testing.T) {
	w, err := Hann(257)
	if err != nil {
		t.Fatalf("Hann() error = %v", err)
	}
	for i := range w {
		if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
			t.Fatalf("w[%d]=%v != w[%d]=%v", i, w[i], len(w)-1-i, w[len(w)-1-i])
		}
	}
	if math.Abs(w[128]-1) > 1e-12 {
		t.Fatalf("centre = %v, want 1", w[128])
	}
	if _, err := Hann(0); err == nil {
		t.Fatal("expected error for size 0")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	x := []float64{2, 2, 2}
	if err := ApplyCoefficientsInPlace(x, []float64{0, 0.5, 1}); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace() error = %v", err)
	}
	if x[0] != 0 || x[1] != 1 || x[2] != 2 {
		t.Fatalf("x = %v, want [0 1 2]", x)
	}
	if err := ApplyCoefficientsInPlace(x, []float64{1}); !errors.Is(err, errMismatchedLength) {
		t.Fatalf("error = %v, want errMismatchedLength", err)
	}
}
