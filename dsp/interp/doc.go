// Package interp provides the fractional interpolation kernels used by the
// rate transposer.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation (transposer default)
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum selects a kernel at construction time; [Mode.Taps] reports
// how many neighbours each kernel reads on either side of the interval.
package interp
