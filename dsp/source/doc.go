// Package source adapts fully decoded audio into pull-based frame
// extraction for the stretch driver.
//
// Buffered wraps a planar buffer.Frames with random access. Extract never
// fails: reading past the end yields a short count, which a driver treats as
// end of stream. FromAudioBuffer converts go-audio buffers, as produced by
// the go-audio WAV and AIFF decoders, into a Buffered source.
package source
