package stretch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
)

// ErrInvalidParameters indicates a non-positive or non-finite control value,
// channel count or sample rate.
var ErrInvalidParameters = errors.New("stretch: invalid parameters")

// Stretcher changes duration by tempo while preserving pitch.
//
// Input is queued by Put and processed one window at a time once enough
// frames are buffered; output is drained with Get. Flush pads the end of the
// stream so the total output is floor(input/tempo) frames.
type Stretcher struct {
	channels int
	cfg      config
	tempo    float64
	sz       sizes

	input  *buffer.Fifo
	output *buffer.Fifo

	// mid is the tail of the last emitted window, held back until the next
	// window is cross-faded into it.
	mid         *buffer.Frames
	isBeginning bool
	// nominal is the ideal start of the next window relative to the head
	// of input. Its fractional part carries between windows.
	nominal float64

	// Output is released for Get only up to floor(expected) frames per
	// stream, so draining early cannot exceed the duration law.
	expected float64
	emitted  int
	released int
	ready    int

	xfade crossfader
	corr  correlator
}

// NewStretcher returns a Stretcher at tempo 1.
func NewStretcher(channels int, opts ...Option) (*Stretcher, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channels must be > 0: %d", ErrInvalidParameters, channels)
	}
	cfg := applyOptions(opts)
	if cfg.seekWindowSize < 2*cfg.slopeSize {
		return nil, fmt.Errorf("%w: seek window %d must be at least twice the slope %d",
			ErrInvalidParameters, cfg.seekWindowSize, cfg.slopeSize)
	}

	input, err := buffer.NewFifo(channels)
	if err != nil {
		return nil, err
	}
	output, err := buffer.NewFifo(channels)
	if err != nil {
		return nil, err
	}

	s := &Stretcher{
		channels:    channels,
		cfg:         cfg,
		tempo:       1,
		sz:          cfg.sizesFor(1),
		input:       input,
		output:      output,
		isBeginning: true,
	}
	return s, nil
}

// Channels returns the channel count.
func (s *Stretcher) Channels() int { return s.channels }

// Tempo returns the current tempo ratio.
func (s *Stretcher) Tempo() float64 { return s.tempo }

// SeekWindowSize returns the tempo-scaled window length in frames.
func (s *Stretcher) SeekWindowSize() int { return s.sz.window }

// SlopeSize returns the tempo-scaled cross-fade length in frames.
func (s *Stretcher) SlopeSize() int { return s.sz.slope }

// SeekSize returns the tempo-scaled number of candidate splice offsets.
func (s *Stretcher) SeekSize() int { return s.sz.seek }

// NominalSkip returns tempo*(window-slope)+slope, the input span covered by
// one window including its overlap.
func (s *Stretcher) NominalSkip() float64 { return s.sz.nominalSkip() }

// SetTempo sets output speed relative to input speed. Values are clamped to
// [0.25, 4]. When the window sizes change mid-stream the held overlap tail
// is emitted unfaded and the next window starts fresh.
func (s *Stretcher) SetTempo(tempo float64) error {
	if !core.IsFinitePositive(tempo) {
		return fmt.Errorf("%w: tempo must be finite and > 0: %f", ErrInvalidParameters, tempo)
	}
	tempo = core.Clamp(tempo, minTempo, maxTempo)
	if core.NearlyEqual(tempo, 1, identityTolerance) {
		tempo = 1
	}

	sz := s.cfg.sizesFor(tempo)
	if sz.window != s.sz.window || sz.slope != s.sz.slope || sz.seek != s.sz.seek {
		s.restart()
	}
	s.tempo = tempo
	s.sz = sz
	return nil
}

// Put queues frames and processes every complete window.
func (s *Stretcher) Put(frames *buffer.Frames) error {
	if frames.Len() == 0 {
		return nil
	}
	if err := s.input.Put(frames); err != nil {
		return err
	}
	s.expected += float64(frames.Len()) / s.tempo
	if err := s.process(); err != nil {
		return err
	}
	s.release(min(s.emitted, s.target()))
	return nil
}

// Get removes and returns up to n processed frames.
func (s *Stretcher) Get(n int) *buffer.Frames {
	out := s.output.Get(min(n, s.ready))
	s.ready -= out.Len()
	return out
}

// Available returns the number of processed frames ready for Get.
func (s *Stretcher) Available() int { return s.ready }

// Flush ends the stream: the input is padded with silence until
// floor(input/tempo) frames have been produced since the last Flush or
// Clear, surplus output is dropped and the next Put starts a new stream.
// The padding is stretched like real input, so the last frames fade into
// silence. Below tempo 1, or for input shorter than one window, the tail
// can hold up to a window of silence.
func (s *Stretcher) Flush() error {
	target := s.target()

	if err := s.process(); err != nil {
		return err
	}
	for s.emitted < target {
		s.input.PutSilence(s.sz.required(s.sz.seek) + int(math.Ceil(s.sz.skip)))
		if err := s.process(); err != nil {
			return err
		}
	}

	s.release(target)
	s.output.Truncate(s.ready)
	s.input.Clear()
	s.resetStream()
	return nil
}

// Clear empties both queues without releasing their storage and resets the
// stream state.
func (s *Stretcher) Clear() {
	s.input.Clear()
	s.output.Clear()
	s.ready = 0
	s.resetStream()
}

func (s *Stretcher) target() int {
	return int(math.Floor(s.expected + 1e-9))
}

// release makes the stream's first upTo emitted frames available to Get.
func (s *Stretcher) release(upTo int) {
	if upTo > s.released {
		s.ready += upTo - s.released
		s.released = upTo
	}
}

func (s *Stretcher) resetStream() {
	s.mid = nil
	s.isBeginning = true
	s.nominal = 0
	s.expected = 0
	s.emitted = 0
	s.released = 0
}

// restart emits the held tail and makes the next window a first window.
func (s *Stretcher) restart() {
	if s.mid != nil {
		s.emit(s.mid)
		s.mid = nil
	}
	s.isBeginning = true
	s.nominal = 0
}

func (s *Stretcher) process() error {
	if s.tempo == 1 {
		s.restart()
		s.emit(s.input.Get(s.input.Position()))
		return nil
	}

	for {
		lead := 0
		if !s.isBeginning {
			lead = max(int(s.nominal)-s.sz.seek/2, 0)
		}
		if s.input.Position() < s.sz.required(lead) {
			return nil
		}
		if err := s.processWindow(lead); err != nil {
			return err
		}
	}
}

func (s *Stretcher) processWindow(lead int) error {
	w, slope := s.sz.window, s.sz.slope

	if s.isBeginning {
		seg := s.input.Peek(0, w)
		s.emit(seg.Slice(0, w-slope))
		s.mid = seg.Slice(w-slope, w).Clone()
		s.isBeginning = false
		s.nominal = 0
	} else {
		seek := s.input.Peek(lead, s.sz.seek+slope-1)
		offset := s.seekBest(s.mid, seek)

		seg := s.input.Peek(lead+offset, w)
		if err := s.xfade.apply(s.mid, seg.Slice(0, slope)); err != nil {
			return err
		}
		s.emit(s.mid)
		s.emit(seg.Slice(slope, w-slope))
		if _, err := s.mid.CopyFrom(seg.Slice(w-slope, w), 0); err != nil {
			return err
		}
	}

	s.nominal += s.sz.skip
	if drop := int(s.nominal) - s.sz.seek/2; drop > 0 {
		s.nominal -= float64(s.input.Skip(drop))
	}
	return nil
}

func (s *Stretcher) seekBest(ref, seek *buffer.Frames) int {
	threshold := s.cfg.fftSeekThreshold
	if threshold >= 0 && ref.Len()*(seek.Len()-ref.Len()+1) > threshold {
		if offset, err := s.corr.seekBest(ref, seek); err == nil {
			return offset
		}
	}
	return SeekBest(ref, seek)
}

func (s *Stretcher) emit(frames *buffer.Frames) {
	// Channel counts always match: every block is cut from the input queue.
	_ = s.output.Put(frames)
	s.emitted += frames.Len()
}
