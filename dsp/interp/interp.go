package interp

// Mode selects an interpolation kernel.
type Mode int

const (
	// ModeLinear interpolates between the two neighbouring samples.
	ModeLinear Mode = iota
	// ModeHermite uses 4-point cubic Hermite interpolation.
	ModeHermite
)

// String returns the kernel name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// Taps returns how many samples the kernel reads before x0 and after x1
// when interpolating inside the interval [x0, x1].
func (m Mode) Taps() (before, after int) {
	if m == ModeHermite {
		return 1, 1
	}
	return 0, 0
}

// At interpolates x at fractional offset t past index i, where i is the
// interval start. The caller guarantees the taps reported by [Mode.Taps]
// are in range.
func (m Mode) At(x []float64, i int, t float64) float64 {
	if m == ModeHermite {
		return Hermite4(t, x[i-1], x[i], x[i+1], x[i+2])
	}
	return Linear2(t, x[i], x[i+1])
}

// Linear2 interpolates from x0 (t = 0) to x1 (t = 1).
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
