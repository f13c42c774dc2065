package source

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/go-audio/audio"
)

const defaultBitDepth = 16

// FromAudioBuffer de-interleaves a go-audio buffer into a Buffered source.
// Integer samples are scaled to [-1, 1] by their source bit depth (16 when
// unknown; 8-bit data is treated as unsigned). Float buffers are taken as
// already normalized.
func FromAudioBuffer(buf audio.Buffer) (*Buffered, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil audio buffer", ErrInvalidSource)
	}
	format := buf.PCMFormat()
	if format == nil || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing channel layout", ErrInvalidSource)
	}

	var samples []float64
	switch b := buf.(type) {
	case *audio.IntBuffer:
		samples = normalizeInts(b.Data, b.SourceBitDepth)
	default:
		samples = buf.AsFloatBuffer().Data
	}

	frames, err := buffer.FromInterleaved(samples[:len(samples)-len(samples)%format.NumChannels], format.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	return NewBuffered(frames, float64(format.SampleRate))
}

// ToIntBuffer interleaves frames into a go-audio integer buffer at bitDepth,
// clamping samples to [-1, 1].
func ToIntBuffer(frames *buffer.Frames, sampleRate, bitDepth int) *audio.IntBuffer {
	if audio.IntMaxSignedValue(bitDepth) == 0 || bitDepth == 8 {
		bitDepth = defaultBitDepth
	}
	scale := float64(audio.IntMaxSignedValue(bitDepth))

	interleaved := frames.Interleave(nil)
	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		v = min(max(v, -1), 1)
		data[i] = int(v * scale)
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: frames.Channels(), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
}

func normalizeInts(data []int, bitDepth int) []float64 {
	out := make([]float64, len(data))
	if bitDepth == 8 {
		for i, v := range data {
			out[i] = float64(v-128) / 128
		}
		return out
	}
	if audio.IntMaxSignedValue(bitDepth) == 0 {
		bitDepth = defaultBitDepth
	}
	scale := 1 / float64(audio.IntMaxSignedValue(bitDepth)+1)
	for i, v := range data {
		out[i] = float64(v) * scale
	}
	return out
}
