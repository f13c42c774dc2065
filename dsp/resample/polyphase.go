package resample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

// ErrInvalidRatio indicates a non-positive up/down ratio.
var ErrInvalidRatio = errors.New("resample: invalid ratio")

// ErrUnknownQuality indicates a quality name ParseQuality does not know.
var ErrUnknownQuality = errors.New("resample: unknown quality")

// maxDenominator caps the denominator when a rate is approximated as up/down.
const maxDenominator = 1024

// Quality selects the anti-alias filter of a polyphase Resampler.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityBest:
		return "best"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality maps "fast", "balanced" or "best" to a Quality.
func ParseQuality(name string) (Quality, error) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		if name == q.String() {
			return q, nil
		}
	}
	return QualityBalanced, fmt.Errorf("%w: %q", ErrUnknownQuality, name)
}

// Profile holds the filter parameters of a quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the filter parameters used by q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

// Resampler converts one channel by a rational ratio up/down with a
// Kaiser-windowed polyphase FIR. State carries across Process calls.
type Resampler struct {
	up, down int
	quality  Quality

	phases   [][]float64
	delay    float64 // group delay in input frames
	history  []float64
	work     []float64
	phase    int
	next     int // input index of the next output, relative to totalIn-len(history)
	totalIn  int
	maxPhase int
}

// NewRational returns a Resampler producing up output frames for every
// down input frames.
func NewRational(up, down int, q Quality) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}
	g := gcd(up, down)
	up /= g
	down /= g

	p := QualityProfile(q)
	taps, err := designLowpass(up, down, p)
	if err != nil {
		return nil, err
	}

	r := &Resampler{up: up, down: down, quality: q}
	r.phases = make([][]float64, up)
	for ph := range up {
		for i := ph; i < len(taps); i += up {
			r.phases[ph] = append(r.phases[ph], taps[i])
		}
		r.maxPhase = max(r.maxPhase, len(r.phases[ph]))
	}
	r.delay = 0.5 * float64(len(taps)-1) / float64(up)
	r.Reset()
	return r, nil
}

// NewForRate returns a Resampler whose output is rate times shorter than
// its input, approximating 1/rate as a ratio of small integers.
func NewForRate(rate float64, q Quality) (*Resampler, error) {
	if !core.IsFinitePositive(rate) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidRate, rate)
	}
	up, down := approximateRatio(1/rate, maxDenominator)
	return NewRational(up, down, q)
}

// Ratio returns the reduced up/down factors.
func (r *Resampler) Ratio() (up, down int) { return r.up, r.down }

// Quality returns the filter quality.
func (r *Resampler) Quality() Quality { return r.quality }

// TapsPerPhase returns the length of the longest polyphase branch.
func (r *Resampler) TapsPerPhase() int { return r.maxPhase }

// Delay returns the filter's group delay in input frames.
func (r *Resampler) Delay() float64 { return r.delay }

// Reset clears filter state.
func (r *Resampler) Reset() {
	r.history = r.history[:0]
	r.phase = 0
	r.next = 0
	r.totalIn = 0
}

// Process filters input and returns every output frame whose newest tap
// falls inside the input seen so far.
func (r *Resampler) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	h := len(r.history)
	r.work = core.EnsureLen(r.work, h+len(input))
	copy(r.work, r.history)
	copy(r.work[h:], input)

	base := r.totalIn - h
	last := r.totalIn + len(input) - 1

	var out []float64
	for r.next <= last {
		y := 0.0
		for k, c := range r.phases[r.phase] {
			idx := r.next - k
			if idx < base {
				break
			}
			y += c * r.work[idx-base]
		}
		out = append(out, y)

		r.phase += r.down
		r.next += r.phase / r.up
		r.phase %= r.up
	}
	r.totalIn += len(input)

	keep := min(max(r.maxPhase-1, 0), len(r.work))
	r.history = append(r.history[:0], r.work[len(r.work)-keep:]...)
	return out
}
