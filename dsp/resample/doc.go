// Package resample provides a streaming rate transposer: a continuous
// interpolating resampler that changes playback rate, and therefore pitch
// and duration together, by a fixed ratio.
//
// The transposer keeps its fractional read position and a few frames of
// per-channel history between calls, so splitting a stream into blocks of
// any size yields the same output as processing it at once.
//
// Interpolation kernels:
//   - InterpolationLinear: two-point, default
//   - InterpolationHermite: four-point cubic, one extra frame of latency
//
// By default no anti-alias filter is applied, so fidelity degrades as the
// rate moves away from 1. WithAntiAlias swaps the interpolator for a
// Kaiser-windowed polyphase FIR (Resampler) whose group delay is
// compensated, keeping output length and alignment unchanged.
//
// Common workflow:
//   - NewRateTransposer(channels, opts...)
//   - SetRate(rate)
//   - Transpose(block, false) for each block, then Flush()
package resample
