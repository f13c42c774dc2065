package render

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
)

// ErrInvalidDriver indicates a missing source or processor, a source whose
// channel count or sample rate does not match the processor, or an invalid
// duration ratio.
var ErrInvalidDriver = errors.New("render: invalid driver")

// Source provides random-access frame extraction.
type Source interface {
	Len() int
	Channels() int
	Extract(dst *buffer.Frames, numFrames, position int) int
}

// Processor is the streaming stage a Driver feeds.
type Processor interface {
	Channels() int
	DurationRatio() float64
	Put(frames *buffer.Frames) error
	Get(n int) *buffer.Frames
	Flush() error
}

// sampleRater is implemented by sources and processors that know their
// sample rate.
type sampleRater interface {
	SampleRate() float64
}

// ConsumeFunc receives each produced block. The block is owned by the
// callee. Returning an error stops the run.
type ConsumeFunc func(block *buffer.Frames) error

// ProgressFunc receives the completed fraction of the output.
type ProgressFunc func(fraction float64)

// Driver pumps a Source through a Processor.
type Driver struct {
	src       Source
	proc      Processor
	blockSize int
	pool      *buffer.Pool
}

// NewDriver returns a Driver pulling blocks of 16384 frames unless
// WithBlockSize says otherwise. A mono source may feed a processor with more
// channels; any other channel mismatch is rejected, as is a sample rate
// mismatch when both sides report one.
func NewDriver(src Source, proc Processor, opts ...core.ProcessorOption) (*Driver, error) {
	if src == nil || proc == nil {
		return nil, fmt.Errorf("%w: source and processor are required", ErrInvalidDriver)
	}
	if proc.Channels() <= 0 {
		return nil, fmt.Errorf("%w: processor has %d channels", ErrInvalidDriver, proc.Channels())
	}
	if sc := src.Channels(); sc != proc.Channels() && sc != 1 {
		return nil, fmt.Errorf("%w: source has %d channels, processor %d", ErrInvalidDriver, sc, proc.Channels())
	}
	if a, ok := src.(sampleRater); ok {
		if b, ok := proc.(sampleRater); ok && a.SampleRate() != b.SampleRate() {
			return nil, fmt.Errorf("%w: source at %.0f Hz, processor at %.0f Hz", ErrInvalidDriver, a.SampleRate(), b.SampleRate())
		}
	}
	if !core.IsFinitePositive(proc.DurationRatio()) {
		return nil, fmt.Errorf("%w: duration ratio %f", ErrInvalidDriver, proc.DurationRatio())
	}

	cfg := core.ApplyProcessorOptions(opts...)
	return &Driver{
		src:       src,
		proc:      proc,
		blockSize: cfg.BlockSize,
		pool:      buffer.NewPool(),
	}, nil
}

// BlockSize returns the extraction block size in frames.
func (d *Driver) BlockSize() int { return d.blockSize }

// OutputLength returns floor(source length / duration ratio).
func (d *Driver) OutputLength() int {
	return int(math.Floor(float64(d.src.Len())/d.proc.DurationRatio() + 1e-9))
}

// Run processes the whole source and returns the number of frames passed to
// consume. On error or cancellation the frames already consumed stay valid.
// If the processor comes up short after flushing, the last block is padded
// with silence so exactly OutputLength frames are produced.
func (d *Driver) Run(ctx context.Context, consume ConsumeFunc, progress ProgressFunc) (int, error) {
	total := d.OutputLength()
	if total == 0 {
		report(progress, 1)
		return 0, nil
	}

	channels := d.proc.Channels()
	block := d.pool.Get(channels, d.blockSize)
	defer d.pool.Put(block)

	read, completed := 0, 0
	flushed := false
	for completed < total {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		if !flushed {
			n := d.src.Extract(block, d.blockSize, read)
			read += n
			if n > 0 {
				if err := d.proc.Put(block.Slice(0, n)); err != nil {
					return completed, fmt.Errorf("render: put at frame %d: %w", read-n, err)
				}
			}
			if n < d.blockSize {
				if err := d.proc.Flush(); err != nil {
					return completed, fmt.Errorf("render: flush: %w", err)
				}
				flushed = true
			}
		}

		out := d.proc.Get(total - completed)
		if flushed && out.Len() < total-completed {
			padded := buffer.NewFrames(channels, total-completed)
			if _, err := padded.CopyFrom(out, 0); err != nil {
				return completed, err
			}
			out = padded
		}
		if out.Len() == 0 {
			continue
		}

		if consume != nil {
			if err := consume(out); err != nil {
				return completed, fmt.Errorf("render: consume: %w", err)
			}
		}
		completed += out.Len()
		report(progress, float64(completed)/float64(total))
	}
	return completed, nil
}

func report(progress ProgressFunc, fraction float64) {
	if progress != nil {
		progress(min(fraction, 1))
	}
}
