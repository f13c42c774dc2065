// Package tone provides simple pitch and level measurements for verifying
// stretch output: dominant frequency from a windowed FFT peak or from the
// rising zero-crossing rate, RMS level and RMS difference between two
// signals. Windowing, spectra and level statistics come from dsp/window,
// dsp/spectrum and stats/time.
package tone
