// Package stretch changes the duration of a multi-channel signal without
// changing its pitch.
//
// Stretcher implements WSOLA (waveform-similarity overlap-add): the input is
// cut into overlapping windows, each new window is placed where its waveform
// best continues the tail of the previous one, and the seam is cross-faded.
// Consuming input faster or slower than output is emitted realizes the tempo
// ratio.
//
// Engine combines a Stretcher with a resample.RateTransposer behind three
// independent controls:
//   - tempo: duration change, pitch preserved
//   - pitch: playback-rate change, duration and pitch together
//   - rate: multiplies pitch into the transposer's effective rate
//
// Window sizes scale with tempo. Defaults (at tempo 1):
//   - seek window: 16384 frames
//   - slope (overlap): 2048 frames
//   - seek range: 2048 frames
//
// The similarity search costs slope*seek multiply-adds per window. Above a
// configurable threshold the same scores are computed by FFT
// cross-correlation.
//
// Processing is batch oriented and single-owner: a Stretcher or Engine must
// not be shared between goroutines.
package stretch
