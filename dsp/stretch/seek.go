package stretch

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// SeekBest returns the offset in [0, seek.Len()-ref.Len()] at which seek
// best continues ref. The score of an offset is the dot product of ref with
// the equally long part of seek starting there, summed over channels and
// unnormalized. Ties keep the first offset found. Channels beyond the
// smaller channel count are ignored; a seek region shorter than ref yields 0.
func SeekBest(ref, seek *buffer.Frames) int {
	n := ref.Len()
	candidates := seek.Len() - n + 1
	if n == 0 || candidates <= 1 {
		return 0
	}
	channels := min(ref.Channels(), seek.Channels())

	best := 0
	bestScore := 0.0
	for offset := range candidates {
		score := 0.0
		for c := range channels {
			score += vecmath.DotProduct(ref.Channel(c), seek.Channel(c)[offset:offset+n])
		}
		if offset == 0 || score > bestScore {
			bestScore = score
			best = offset
		}
	}
	return best
}

var errSeekShape = errors.New("stretch: seek region shorter than reference")

// correlator computes the SeekBest scores by FFT cross-correlation,
// accumulating every channel in the frequency domain before one inverse
// transform. Plans and scratch are reused while the size is unchanged.
type correlator struct {
	size int
	plan *algofft.Plan[complex128]

	time []complex128
	refF []complex128
	seeF []complex128
	acc  []complex128
}

// SeekBestFFT is SeekBest computed by FFT cross-correlation. Results agree
// with SeekBest except where scores tie within floating-point rounding.
func SeekBestFFT(ref, seek *buffer.Frames) (int, error) {
	var c correlator
	return c.seekBest(ref, seek)
}

func (c *correlator) seekBest(ref, seek *buffer.Frames) (int, error) {
	n := ref.Len()
	candidates := seek.Len() - n + 1
	if candidates < 1 {
		return 0, fmt.Errorf("%w: %d < %d", errSeekShape, seek.Len(), n)
	}
	if n == 0 || candidates == 1 {
		return 0, nil
	}
	if err := c.ensure(core.NextPowerOf2(seek.Len())); err != nil {
		return 0, err
	}

	clear(c.acc)
	channels := min(ref.Channels(), seek.Channels())
	for ch := range channels {
		if err := c.forward(c.refF, ref.Channel(ch)); err != nil {
			return 0, err
		}
		if err := c.forward(c.seeF, seek.Channel(ch)); err != nil {
			return 0, err
		}
		for k := range c.acc {
			r := c.refF[k]
			c.acc[k] += c.seeF[k] * complex(real(r), -imag(r))
		}
	}

	if err := c.plan.Inverse(c.time, c.acc); err != nil {
		return 0, fmt.Errorf("stretch: inverse FFT failed: %w", err)
	}

	best := 0
	bestScore := real(c.time[0])
	for offset := 1; offset < candidates; offset++ {
		if score := real(c.time[offset]); score > bestScore {
			bestScore = score
			best = offset
		}
	}
	return best, nil
}

func (c *correlator) ensure(size int) error {
	if c.plan != nil && c.size == size {
		return nil
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return fmt.Errorf("stretch: failed to create FFT plan: %w", err)
	}
	c.size = size
	c.plan = plan
	c.time = make([]complex128, size)
	c.refF = make([]complex128, size)
	c.seeF = make([]complex128, size)
	c.acc = make([]complex128, size)
	return nil
}

func (c *correlator) forward(dst []complex128, samples []float64) error {
	for i := range c.time {
		if i < len(samples) {
			c.time[i] = complex(samples[i], 0)
		} else {
			c.time[i] = 0
		}
	}
	if err := c.plan.Forward(dst, c.time); err != nil {
		return fmt.Errorf("stretch: forward FFT failed: %w", err)
	}
	return nil
}
