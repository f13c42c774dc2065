package stretch

import (
	"math"

	"github.com/cwbudde/algo-stretch/dsp/resample"
)

const (
	defaultSeekWindowSize = 16384
	defaultSlopeSize      = 2048
	defaultSeekSize       = 2048

	defaultFFTSeekThreshold = 1 << 22

	minTempo = 0.25
	maxTempo = 4.0

	identityTolerance = 1e-9
)

type config struct {
	seekWindowSize   int
	slopeSize        int
	seekSize         int
	fftSeekThreshold int
	interpolation    resample.Interpolation
	transposerOpts   []resample.Option
}

func defaultConfig() config {
	return config{
		seekWindowSize:   defaultSeekWindowSize,
		slopeSize:        defaultSlopeSize,
		seekSize:         defaultSeekSize,
		fftSeekThreshold: defaultFFTSeekThreshold,
		interpolation:    resample.InterpolationLinear,
	}
}

// Option configures a Stretcher or Engine.
type Option func(*config)

// WithSeekWindowSize sets the window length in frames at tempo 1.
// Values below 16 are ignored.
func WithSeekWindowSize(frames int) Option {
	return func(cfg *config) {
		if frames >= 16 {
			cfg.seekWindowSize = frames
		}
	}
}

// WithSlopeSize sets the cross-fade length in frames at tempo 1.
// Values below 4 are ignored.
func WithSlopeSize(frames int) Option {
	return func(cfg *config) {
		if frames >= 4 {
			cfg.slopeSize = frames
		}
	}
}

// WithSeekSize sets the number of candidate splice offsets at tempo 1.
// Values below 1 are ignored.
func WithSeekSize(frames int) Option {
	return func(cfg *config) {
		if frames >= 1 {
			cfg.seekSize = frames
		}
	}
}

// WithFFTSeekThreshold sets the slope*seek product above which the
// similarity search switches to FFT cross-correlation. Zero forces the FFT
// path, a negative value disables it.
func WithFFTSeekThreshold(products int) Option {
	return func(cfg *config) {
		cfg.fftSeekThreshold = products
	}
}

// WithInterpolation selects the Engine's transposer kernel.
// A Stretcher ignores it.
func WithInterpolation(mode resample.Interpolation) Option {
	return func(cfg *config) {
		if mode == resample.InterpolationLinear || mode == resample.InterpolationHermite {
			cfg.interpolation = mode
		}
	}
}

// WithAntiAlias makes the Engine's transposer resample through a polyphase
// FIR of the given quality instead of interpolating. A Stretcher ignores it.
func WithAntiAlias(q resample.Quality) Option {
	return func(cfg *config) {
		cfg.transposerOpts = append(cfg.transposerOpts, resample.WithAntiAlias(q))
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// sizes are the tempo-scaled window lengths used by one processing run.
type sizes struct {
	window int
	slope  int
	seek   int
	skip   float64
}

func (cfg config) sizesFor(tempo float64) sizes {
	scale := func(base, floor int) int {
		return max(int(math.Round(float64(base)*tempo)), floor)
	}
	s := sizes{
		slope: scale(cfg.slopeSize, 4),
		seek:  scale(cfg.seekSize, 1),
	}
	s.window = max(scale(cfg.seekWindowSize, 16), 2*s.slope)
	s.skip = tempo * float64(s.window-s.slope)
	return s
}

// nominalSkip is the input advance per window including the slope overlap.
func (s sizes) nominalSkip() float64 {
	return s.skip + float64(s.slope)
}

// required is the buffered input needed before a window can be processed
// with its search region starting at lead.
func (s sizes) required(lead int) int {
	return lead + s.seek + s.window
}
