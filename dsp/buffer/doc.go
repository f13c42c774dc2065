// Package buffer provides the planar multi-channel containers the stretch
// path is built on.
//
// Included types:
//   - Frames: a block of frames with a channel count fixed at construction.
//     Every channel is a contiguous []float64 of the same length.
//   - Fifo: a growable per-channel sample queue. Get never returns more
//     frames than are buffered and never pads; a short result is the only
//     "drained" signal.
//
// A Fifo is owned by exactly one processor and is not safe for concurrent use.
package buffer
