package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// SineFrames returns a multi-channel sine block. Channel c is scaled by
// 1/(c+1) so channels are distinguishable while sharing phase.
func SineFrames(channels int, freqHz, sampleRate, amplitude float64, length int) *buffer.Frames {
	f := buffer.NewFrames(channels, length)
	base := DeterministicSine(freqHz, sampleRate, amplitude, length)
	for c := 0; c < f.Channels(); c++ {
		ch := f.Channel(c)
		scale := 1 / float64(c+1)
		for i, v := range base {
			ch[i] = v * scale
		}
	}
	return f
}

// Concat joins blocks of equal channel count into one block.
func Concat(channels int, blocks ...*buffer.Frames) *buffer.Frames {
	total := 0
	for _, b := range blocks {
		total += b.Len()
	}
	out := buffer.NewFrames(channels, total)
	offset := 0
	for _, b := range blocks {
		if _, err := out.CopyFrom(b, offset); err != nil {
			panic(err)
		}
		offset += b.Len()
	}
	return out
}
