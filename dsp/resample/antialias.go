package resample

import (
	"math"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

// antiAlias runs one polyphase Resampler per channel and compensates the
// filter delay, so a stream of n frames yields floor(n*up/down) frames
// aligned with the input.
type antiAlias struct {
	quality Quality
	rate    float64
	stages  []*Resampler

	lead    int // leading outputs still to drop
	totalIn int
	emitted int
}

func newAntiAlias(channels int, rate float64, q Quality) (*antiAlias, error) {
	a := &antiAlias{quality: q, rate: rate, stages: make([]*Resampler, channels)}
	for c := range a.stages {
		r, err := NewForRate(rate, q)
		if err != nil {
			return nil, err
		}
		a.stages[c] = r
	}
	a.reset()
	return a, nil
}

func (a *antiAlias) reset() {
	for _, r := range a.stages {
		r.Reset()
	}
	up, down := a.stages[0].Ratio()
	a.lead = int(math.Round(a.stages[0].Delay() * float64(up) / float64(down)))
	a.totalIn = 0
	a.emitted = 0
}

func (a *antiAlias) process(src *buffer.Frames) *buffer.Frames {
	a.totalIn += src.Len()
	return a.collect(src, math.MaxInt)
}

// flush pushes the delayed tail out with silence and resets the stream.
func (a *antiAlias) flush() *buffer.Frames {
	up, down := a.stages[0].Ratio()
	target := a.totalIn * up / down
	pad := int(math.Ceil(a.stages[0].Delay())) + down/up + 2
	out := a.collect(buffer.NewFrames(len(a.stages), pad), target-a.emitted)
	a.reset()
	return out
}

func (a *antiAlias) collect(src *buffer.Frames, limit int) *buffer.Frames {
	chans := make([][]float64, len(a.stages))
	for c, r := range a.stages {
		chans[c] = r.Process(src.Channel(c))
	}
	n := len(chans[0])

	skip := min(a.lead, n)
	a.lead -= skip
	n = max(min(n-skip, limit), 0)

	out := buffer.NewFrames(len(a.stages), n)
	for c, ch := range chans {
		copy(out.Channel(c), ch[skip:skip+n])
	}
	a.emitted += n
	return out
}
