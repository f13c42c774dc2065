package buffer

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/core"
)

const minFifoCapacity = 1024

// Fifo is a per-channel sample queue with a fixed channel count.
type Fifo struct {
	data     [][]float64
	position int
}

// NewFifo returns an empty queue for the given channel count.
func NewFifo(channels int) (*Fifo, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	return &Fifo{data: make([][]float64, channels)}, nil
}

// Channels returns the channel count.
func (f *Fifo) Channels() int { return len(f.data) }

// Position returns the number of buffered frames.
func (f *Fifo) Position() int { return f.position }

// Put appends src to the tail of the queue.
func (f *Fifo) Put(src *Frames) error {
	if src == nil {
		return nil
	}
	if src.Channels() != len(f.data) {
		return fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, src.Channels(), len(f.data))
	}

	n := src.Len()
	f.grow(n)
	for c := range f.data {
		copy(f.data[c][f.position:], src.data[c])
	}
	f.position += n
	return nil
}

// PutSilence appends n zero frames.
func (f *Fifo) PutSilence(n int) {
	if n <= 0 {
		return
	}
	f.grow(n)
	for c := range f.data {
		core.Zero(f.data[c][f.position : f.position+n])
	}
	f.position += n
}

// Get removes and returns up to n frames from the head of the queue.
// Fewer frames are returned when fewer are buffered.
func (f *Fifo) Get(n int) *Frames {
	n = core.ClampInt(n, 0, f.position)
	out := NewFrames(len(f.data), n)
	for c := range f.data {
		copy(out.data[c], f.data[c][:n])
	}
	f.discard(n)
	return out
}

// Peek returns a read-only view of up to n frames starting at start.
// The view aliases the queue and is invalidated by the next mutation.
func (f *Fifo) Peek(start, n int) *Frames {
	start = core.ClampInt(start, 0, f.position)
	end := core.ClampInt(start+n, start, f.position)

	data := make([][]float64, len(f.data))
	for c := range f.data {
		data[c] = f.data[c][start:end:end]
	}
	return &Frames{data: data}
}

// Skip drops up to n frames from the head and returns the count dropped.
func (f *Fifo) Skip(n int) int {
	n = core.ClampInt(n, 0, f.position)
	f.discard(n)
	return n
}

// Truncate keeps only the first n buffered frames.
func (f *Fifo) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < f.position {
		f.position = n
	}
}

// Clear empties the queue without releasing its storage.
func (f *Fifo) Clear() { f.position = 0 }

func (f *Fifo) discard(n int) {
	if n == 0 {
		return
	}
	for c := range f.data {
		copy(f.data[c], f.data[c][n:f.position])
	}
	f.position -= n
}

func (f *Fifo) grow(n int) {
	need := f.position + n
	for c, ch := range f.data {
		if len(ch) >= need {
			continue
		}
		size := max(need, 2*len(ch), minFifoCapacity)
		grown := make([]float64, size)
		copy(grown, ch[:f.position])
		f.data[c] = grown
	}
}
