package main

import (
	"context"
	"flag"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-stretch/internal/config"
	"github.com/cwbudde/algo-stretch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*cliFlags, map[string]bool) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f, flagsSet(fs)
}

func baseConfig() *config.Config {
	return &config.Config{Tempo: 1.1, Pitch: 1, Rate: 1, BlockSize: 4096, Workers: 1, BitDepth: 16}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		tempo float64
		pitch float64
		rate  float64
		bits  int
	}{
		{name: "config only", tempo: 1.1, pitch: 1, rate: 1, bits: 16},
		{name: "tempo flag", args: []string{"-tempo", "0.8"}, tempo: 0.8, pitch: 1, rate: 1, bits: 16},
		{name: "bpm", args: []string{"-source-bpm", "120", "-target-bpm", "150"}, tempo: 1.25, pitch: 1, rate: 1, bits: 16},
		{name: "semitones", args: []string{"-semitones", "12"}, tempo: 1.1, pitch: 2, rate: 1, bits: 16},
		{name: "semitones override pitch", args: []string{"-pitch", "3", "-semitones", "-12"}, tempo: 1.1, pitch: 0.5, rate: 1, bits: 16},
		{name: "rate and bits", args: []string{"-rate", "0.9", "-bits", "24"}, tempo: 1.1, pitch: 1, rate: 0.9, bits: 24},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, set := parse(t, tc.args...)
			s, err := resolve(baseConfig(), f, set)
			require.NoError(t, err)
			assert.InDelta(t, tc.tempo, s.tempo, 1e-12)
			assert.InDelta(t, tc.pitch, s.pitch, 1e-12)
			assert.InDelta(t, tc.rate, s.rate, 1e-12)
			assert.Equal(t, tc.bits, s.bitDepth)
			assert.Equal(t, 4096, s.blockSize)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-tempo", "1.2", "-source-bpm", "100", "-target-bpm", "120"},
		{"-source-bpm", "100"},
		{"-tempo", "-1"},
		{"-bits", "12"},
		{"-block", "0"},
		{"-anti-alias", "ultra"},
	} {
		f, set := parse(t, args...)
		_, err := resolve(baseConfig(), f, set)
		assert.Error(t, err, "args %v", args)
	}
}

func TestResolveAntiAlias(t *testing.T) {
	f, set := parse(t)
	s, err := resolve(baseConfig(), f, set)
	require.NoError(t, err)
	assert.Empty(t, s.options)

	f, set = parse(t, "-anti-alias", "fast")
	s, err = resolve(baseConfig(), f, set)
	require.NoError(t, err)
	assert.Len(t, s.options, 1)
}

func TestWAVRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "tone.wav")
	frames := testutil.SineFrames(2, 440, 44100, 0.5, 4410)

	require.NoError(t, writeWAV(name, frames, 44100, 16))
	src, err := readWAV(name)
	require.NoError(t, err)

	assert.Equal(t, 2, src.Channels())
	assert.Equal(t, 44100.0, src.SampleRate())
	require.Equal(t, frames.Len(), src.Len())
	for c := range 2 {
		diff, err := testutil.MaxAbsDiff(frames.Channel(c), src.Frames().Channel(c))
		require.NoError(t, err)
		assert.Less(t, diff, 1.0/16384)
	}
}

func TestDoMain(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	require.NoError(t, writeWAV(in, testutil.SineFrames(1, 440, 44100, 0.5, 44100), 44100, 16))

	require.NoError(t, doMain(context.Background(), []string{"-in", in, "-out", out, "-tempo", "1.5"}))

	src, err := readWAV(out)
	require.NoError(t, err)
	assert.Equal(t, 29400, src.Len())
}

func TestDoMainAntiAliasedPitch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	require.NoError(t, writeWAV(in, testutil.SineFrames(1, 440, 44100, 0.5, 44100), 44100, 16))

	args := []string{"-in", in, "-out", out, "-semitones", "12", "-anti-alias", "balanced", "-analyze"}
	require.NoError(t, doMain(context.Background(), args))

	src, err := readWAV(out)
	require.NoError(t, err)
	assert.Equal(t, 22050, src.Len())
}

func TestDoMainRequiresFiles(t *testing.T) {
	assert.Error(t, doMain(context.Background(), []string{"-tempo", "2"}))
}

func TestSemitonesBetween(t *testing.T) {
	assert.InDelta(t, 12, semitonesBetween(440, 880), 1e-12)
	assert.True(t, math.Abs(semitonesBetween(440, 440)) < 1e-12)
}
