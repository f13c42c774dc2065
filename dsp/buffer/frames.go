package buffer

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

var (
	// ErrInvalidChannels indicates a non-positive channel count.
	ErrInvalidChannels = errors.New("buffer: channel count must be > 0")
	// ErrChannelMismatch indicates frames with a different channel count than expected.
	ErrChannelMismatch = errors.New("buffer: channel count mismatch")
	// ErrRaggedChannels indicates channels of differing lengths.
	ErrRaggedChannels = errors.New("buffer: channels differ in length")
)

// Frames holds planar audio: one slice per channel, all of equal length.
type Frames struct {
	data [][]float64
}

// NewFrames returns a zero-filled block. A channel count below 1 is raised
// to 1 and a negative length is treated as 0.
func NewFrames(channels, length int) *Frames {
	if channels < 1 {
		channels = 1
	}
	if length < 0 {
		length = 0
	}

	backing := make([]float64, channels*length)
	data := make([][]float64, channels)
	for c := range data {
		data[c] = backing[c*length : (c+1)*length : (c+1)*length]
	}
	return &Frames{data: data}
}

// FromChannels wraps per-channel slices without copying.
func FromChannels(channels ...[]float64) (*Frames, error) {
	if len(channels) == 0 {
		return nil, ErrInvalidChannels
	}
	n := len(channels[0])
	for c, ch := range channels {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrRaggedChannels, c, len(ch), n)
		}
	}
	return &Frames{data: channels}, nil
}

// FromInterleaved de-interleaves samples into a new block.
func FromInterleaved(samples []float64, channels int) (*Frames, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("buffer: %d interleaved samples do not divide into %d channels", len(samples), channels)
	}

	f := NewFrames(channels, len(samples)/channels)
	for i := 0; i < f.Len(); i++ {
		for c := range f.data {
			f.data[c][i] = samples[i*channels+c]
		}
	}
	return f, nil
}

// Channels returns the channel count.
func (f *Frames) Channels() int {
	if f == nil {
		return 0
	}
	return len(f.data)
}

// Len returns the number of frames.
func (f *Frames) Len() int {
	if f == nil || len(f.data) == 0 {
		return 0
	}
	return len(f.data[0])
}

// Channel returns the samples of channel c. The slice aliases the block.
func (f *Frames) Channel(c int) []float64 {
	return f.data[c]
}

// Slice returns frames [start, end) sharing memory with f.
// Bounds are clamped to the block.
func (f *Frames) Slice(start, end int) *Frames {
	n := f.Len()
	start = core.ClampInt(start, 0, n)
	end = core.ClampInt(end, start, n)

	data := make([][]float64, len(f.data))
	for c, ch := range f.data {
		data[c] = ch[start:end:end]
	}
	return &Frames{data: data}
}

// Clone returns a deep copy.
func (f *Frames) Clone() *Frames {
	out := NewFrames(f.Channels(), f.Len())
	for c, ch := range f.data {
		copy(out.data[c], ch)
	}
	return out
}

// CopyFrom copies src into f starting at frame offset and returns the number
// of frames copied. Channel counts must match.
func (f *Frames) CopyFrom(src *Frames, offset int) (int, error) {
	if src.Channels() != f.Channels() {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, src.Channels(), f.Channels())
	}
	if offset < 0 || offset >= f.Len() {
		return 0, nil
	}

	n := 0
	for c := range f.data {
		n = copy(f.data[c][offset:], src.data[c])
	}
	return n, nil
}

// Interleave writes the block into dst as frame-interleaved samples,
// reusing dst capacity when possible.
func (f *Frames) Interleave(dst []float64) []float64 {
	channels := f.Channels()
	dst = core.EnsureLen(dst, f.Len()*channels)
	for c, ch := range f.data {
		for i, v := range ch {
			dst[i*channels+c] = v
		}
	}
	return dst
}

// Zero sets every sample to 0.
func (f *Frames) Zero() {
	for _, ch := range f.data {
		core.Zero(ch)
	}
}
