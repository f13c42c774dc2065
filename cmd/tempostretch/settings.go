package main

import (
	"flag"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/cwbudde/algo-stretch/internal/config"
	"github.com/ossrs/go-oryx-lib/errors"
)

type cliFlags struct {
	in, out, env string

	tempo     float64
	sourceBPM float64
	targetBPM float64
	pitch     float64
	semitones float64
	rate      float64
	blockSize int
	bitDepth  int
	antiAlias string
	analyze   bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{}
	fs.StringVar(&f.in, "in", "", "input WAV file")
	fs.StringVar(&f.out, "out", "", "output WAV file")
	fs.StringVar(&f.env, "env", "", "optional .env file with STRETCH_* settings")
	fs.Float64Var(&f.tempo, "tempo", 1, "tempo ratio, >1 is faster (pitch preserved)")
	fs.Float64Var(&f.sourceBPM, "source-bpm", 0, "tempo of the input in BPM, used with -target-bpm")
	fs.Float64Var(&f.targetBPM, "target-bpm", 0, "desired tempo in BPM, used with -source-bpm")
	fs.Float64Var(&f.pitch, "pitch", 1, "pitch ratio (duration changes with it unless -tempo compensates)")
	fs.Float64Var(&f.semitones, "semitones", 0, "pitch shift in semitones, overrides -pitch")
	fs.Float64Var(&f.rate, "rate", 1, "playback rate, changes tempo and pitch together")
	fs.IntVar(&f.blockSize, "block", 0, "frames pulled from the input per step")
	fs.IntVar(&f.bitDepth, "bits", 0, "output bit depth: 16, 24 or 32")
	fs.StringVar(&f.antiAlias, "anti-alias", "", "resample pitch through a polyphase filter: fast, balanced or best")
	fs.BoolVar(&f.analyze, "analyze", false, "print dominant frequency of input and output")
	return f
}

func flagsSet(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

type settings struct {
	tempo     float64
	pitch     float64
	rate      float64
	blockSize int
	bitDepth  int
	options   []stretch.Option
}

// resolve merges cfg with the flags the user set explicitly.
func resolve(cfg *config.Config, f *cliFlags, set map[string]bool) (settings, error) {
	merged := *cfg
	s := settings{
		tempo:     cfg.Tempo,
		pitch:     cfg.Pitch,
		rate:      cfg.Rate,
		blockSize: cfg.BlockSize,
		bitDepth:  cfg.BitDepth,
	}

	if set["tempo"] {
		s.tempo = f.tempo
	}
	if set["source-bpm"] || set["target-bpm"] {
		if set["tempo"] {
			return s, errors.New("-tempo and -source-bpm/-target-bpm are exclusive")
		}
		t, err := stretch.TempoFromBPM(f.sourceBPM, f.targetBPM)
		if err != nil {
			return s, errors.Wrapf(err, "bpm")
		}
		s.tempo = t
	}

	if set["pitch"] {
		s.pitch = f.pitch
	}
	if set["semitones"] {
		if math.IsNaN(f.semitones) || math.IsInf(f.semitones, 0) {
			return s, errors.Errorf("semitones must be finite, got %v", f.semitones)
		}
		s.pitch = math.Pow(2, f.semitones/12)
	}
	if set["rate"] {
		s.rate = f.rate
	}
	if set["block"] {
		s.blockSize = f.blockSize
	}
	if set["bits"] {
		s.bitDepth = f.bitDepth
	}
	if set["anti-alias"] {
		merged.AntiAlias = f.antiAlias
	}

	merged.Tempo, merged.Pitch, merged.Rate = s.tempo, s.pitch, s.rate
	merged.BlockSize, merged.BitDepth = s.blockSize, s.bitDepth
	if err := merged.Validate(); err != nil {
		return s, err
	}
	s.options = merged.StretchOptions()
	return s, nil
}

func semitonesBetween(fromHz, toHz float64) float64 {
	return 12 * math.Log2(toHz/fromHz)
}
