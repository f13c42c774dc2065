package buffer

import "sync"

// Pool provides sync.Pool-based Frames reuse for block loops that extract
// from a source once per iteration.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Frames{}
			},
		},
	}
}

// Get returns a zeroed block with the requested shape.
// Callers must return it via Put when done.
func (p *Pool) Get(channels, length int) *Frames {
	f := p.pool.Get().(*Frames)
	f.resize(channels, length)
	f.Zero()
	return f
}

// Put returns a block to the pool for reuse.
// The caller must not use the block after calling Put.
func (p *Pool) Put(f *Frames) {
	if f == nil {
		return
	}
	p.pool.Put(f)
}

// resize reshapes f in place, reusing channel storage when it is large enough.
func (f *Frames) resize(channels, length int) {
	if channels < 1 {
		channels = 1
	}
	if length < 0 {
		length = 0
	}
	if cap(f.data) < channels {
		grown := make([][]float64, channels)
		copy(grown, f.data)
		f.data = grown
	}
	f.data = f.data[:channels]
	for c, ch := range f.data {
		if cap(ch) >= length {
			f.data[c] = ch[:length]
			continue
		}
		f.data[c] = make([]float64, length)
	}
}
