// Command tempostretch changes the tempo, pitch or playback rate of a WAV
// file.
//
// Usage:
//
//	tempostretch -in song.wav -out fast.wav [flags]
//
// Tempo can be given directly or as a pair of BPM values. Flags override
// the STRETCH_* environment, which may be seeded from an .env file.
//
// Examples:
//
//	tempostretch -in a.wav -out b.wav -tempo 1.25
//	tempostretch -in a.wav -out b.wav -source-bpm 120 -target-bpm 128
//	tempostretch -in a.wav -out b.wav -semitones -3
//	tempostretch -in a.wav -out b.wav -rate 0.9 -analyze
//	tempostretch -in a.wav -out b.wav -semitones 7 -anti-alias best
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-stretch/internal/config"
	"github.com/cwbudde/algo-stretch/internal/worker"
	"github.com/cwbudde/algo-stretch/measure/tone"
	timestats "github.com/cwbudde/algo-stretch/stats/time"
	"github.com/fatih/color"
	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"
)

func main() {
	ctx := logger.WithContext(context.Background())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := doMain(ctx, os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		logger.Ef(ctx, "run err %+v", err)
		os.Exit(1)
	}
}

func doMain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tempostretch", flag.ContinueOnError)
	f := registerFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tempostretch -in <file.wav> -out <file.wav> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Changes tempo, pitch or rate of a WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if f.in == "" || f.out == "" {
		fs.Usage()
		return errors.New("both -in and -out are required")
	}

	cfg, err := config.Load(f.env)
	if err != nil {
		return errors.Wrapf(err, "config")
	}
	s, err := resolve(cfg, f, flagsSet(fs))
	if err != nil {
		return errors.Wrapf(err, "resolve settings")
	}

	src, err := readWAV(f.in)
	if err != nil {
		return errors.Wrapf(err, "read %v", f.in)
	}
	logger.Tf(ctx, "read %v: %v channels, %vHz, %v frames, tempo=%.4f pitch=%.4f rate=%.4f",
		f.in, src.Channels(), src.SampleRate(), src.Len(), s.tempo, s.pitch, s.rate)

	runner, err := worker.NewRunner(cfg.Workers)
	if err != nil {
		return errors.Wrapf(err, "runner")
	}
	task, err := runner.Submit(ctx, worker.Job{
		Source:    src,
		Tempo:     s.tempo,
		Pitch:     s.pitch,
		Rate:      s.rate,
		BlockSize: s.blockSize,
		Options:   s.options,
	})
	if err != nil {
		return errors.Wrapf(err, "submit")
	}

	last := -1
	for ev := range task.Events() {
		if ev.Kind != worker.EventProgress {
			continue
		}
		if pct := int(ev.Progress * 100); pct != last {
			last = pct
			fmt.Fprintf(os.Stderr, "\r%3d%%", pct)
		}
	}
	fmt.Fprintln(os.Stderr)

	res := task.Wait()
	if res.Output != nil && res.Output.Len() > 0 {
		if err := writeWAV(f.out, res.Output, int(src.SampleRate()), s.bitDepth); err != nil {
			return errors.Wrapf(err, "write %v", f.out)
		}
	}

	if f.analyze {
		printAnalysis(src.Frames().Channel(0), res, src.SampleRate())
	}

	if res.Err != nil {
		color.New(color.FgRed).Printf("%v: %v\n", res.ID, res.Status)
		return res.Err
	}
	color.New(color.FgGreen).Printf("%v: %v, %v frames -> %v\n", res.ID, res.Status, src.Len(), f.out)
	return nil
}

func printAnalysis(in []float64, res worker.Result, sampleRate float64) {
	yellow := color.New(color.FgYellow)
	inHz, err := tone.DominantFrequency(in, sampleRate)
	if err != nil {
		yellow.Printf("input: %v\n", err)
		return
	}
	st := timestats.Calculate(in)
	fmt.Printf("input:  %8.2f Hz  %6.1f dBFS rms  %6.1f dBFS peak  crest %4.1f dB\n",
		inHz, st.RMS_dB, st.Peak_dB, st.CrestFactor_dB)

	if res.Output == nil || res.Output.Len() == 0 {
		yellow.Println("output: empty")
		return
	}
	out := res.Output.Channel(0)
	outHz, err := tone.DominantFrequency(out, sampleRate)
	if err != nil {
		yellow.Printf("output: %v\n", err)
		return
	}
	st = timestats.Calculate(out)
	fmt.Printf("output: %8.2f Hz  %6.1f dBFS rms  %6.1f dBFS peak  crest %4.1f dB  (%+.2f semitones)\n",
		outHz, st.RMS_dB, st.Peak_dB, st.CrestFactor_dB, semitonesBetween(inHz, outHz))
}
