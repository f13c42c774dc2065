package stretch

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-vecmath"
)

// OverlapAdd cross-fades incoming into mid in place over mid.Len() frames.
// mid fades out linearly from 1 while incoming fades in from 0.
func OverlapAdd(mid, incoming *buffer.Frames) error {
	var x crossfader
	return x.apply(mid, incoming)
}

// crossfader caches the linear ramps for one slope length.
type crossfader struct {
	fadeIn  []float64
	fadeOut []float64
}

func (x *crossfader) apply(mid, incoming *buffer.Frames) error {
	if mid.Channels() != incoming.Channels() {
		return fmt.Errorf("%w: got %d, want %d", buffer.ErrChannelMismatch, incoming.Channels(), mid.Channels())
	}
	n := mid.Len()
	if incoming.Len() < n {
		return fmt.Errorf("stretch: overlap needs %d incoming frames, got %d", n, incoming.Len())
	}
	x.ensure(n)

	for c := range mid.Channels() {
		m := mid.Channel(c)
		vecmath.MulBlockInPlace(m, x.fadeOut)
		vecmath.MulAddBlock(m, incoming.Channel(c)[:n], x.fadeIn, m)
	}
	return nil
}

func (x *crossfader) ensure(n int) {
	if len(x.fadeIn) == n {
		return
	}
	x.fadeIn = make([]float64, n)
	x.fadeOut = make([]float64, n)
	for i := range n {
		w := float64(i) / float64(n)
		x.fadeIn[i] = w
		x.fadeOut[i] = 1 - w
	}
}
