package source

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
)

// ErrInvalidSource indicates a missing buffer or a bad sample rate.
var ErrInvalidSource = errors.New("source: invalid source")

// Buffered serves frames from a decoded in-memory signal.
type Buffered struct {
	frames     *buffer.Frames
	sampleRate float64
}

// NewBuffered wraps frames without copying.
func NewBuffered(frames *buffer.Frames, sampleRate float64) (*Buffered, error) {
	if frames == nil || frames.Channels() == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrInvalidSource)
	}
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate must be finite and > 0: %f", ErrInvalidSource, sampleRate)
	}
	return &Buffered{frames: frames, sampleRate: sampleRate}, nil
}

// Len returns the frame count.
func (b *Buffered) Len() int { return b.frames.Len() }

// Channels returns the channel count.
func (b *Buffered) Channels() int { return b.frames.Channels() }

// SampleRate returns the sample rate in Hz.
func (b *Buffered) SampleRate() float64 { return b.sampleRate }

// Duration returns the playback length.
func (b *Buffered) Duration() time.Duration {
	return time.Duration(float64(b.Len()) / b.sampleRate * float64(time.Second))
}

// Frames returns the underlying block.
func (b *Buffered) Frames() *buffer.Frames { return b.frames }

// Extract copies up to numFrames frames starting at position into dst and
// returns the number copied. The count is short near the end of the signal
// and 0 for positions outside it. When dst has more channels than the
// source, the last source channel is repeated; extra source channels are
// ignored.
func (b *Buffered) Extract(dst *buffer.Frames, numFrames, position int) int {
	n := b.available(min(numFrames, dst.Len()), position)
	if n == 0 {
		return 0
	}
	last := b.frames.Channels() - 1
	for c := range dst.Channels() {
		copy(dst.Channel(c)[:n], b.frames.Channel(min(c, last))[position:position+n])
	}
	return n
}

// ExtractInterleaved copies up to numFrames frames starting at position into
// target as interleaved samples in the source's channel layout and returns
// the number of frames copied.
func (b *Buffered) ExtractInterleaved(target []float64, numFrames, position int) int {
	channels := b.frames.Channels()
	n := b.available(min(numFrames, len(target)/channels), position)
	if n == 0 {
		return 0
	}
	for c := range channels {
		ch := b.frames.Channel(c)[position : position+n]
		for i, v := range ch {
			target[i*channels+c] = v
		}
	}
	return n
}

func (b *Buffered) available(numFrames, position int) int {
	if numFrames <= 0 || position < 0 || position >= b.frames.Len() {
		return 0
	}
	return min(numFrames, b.frames.Len()-position)
}
