package main

import (
	"os"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/source"
	"github.com/go-audio/wav"
	"github.com/ossrs/go-oryx-lib/errors"
)

func readWAV(name string) (*source.Buffered, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.Errorf("%v is not a valid wav file", name)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "decode")
	}
	return source.FromAudioBuffer(buf)
}

func writeWAV(name string, frames *buffer.Frames, sampleRate, bitDepth int) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create")
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, frames.Channels(), 1)
	if err := enc.Write(source.ToIntBuffer(frames, sampleRate, bitDepth)); err != nil {
		return errors.Wrapf(err, "encode")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "finish")
	}
	return f.Close()
}
