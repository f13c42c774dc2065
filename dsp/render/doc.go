// Package render drives a whole signal through a stretch engine in blocks.
//
// Driver pulls fixed-size blocks from a Source, feeds them to a Processor
// (normally *stretch.Engine), hands every produced block to a consumer and
// reports progress as a non-decreasing fraction that ends at exactly 1 for a
// complete run. A short extract marks the end of the source: the processor
// is flushed once and the run finishes after the remaining output.
//
// Runs are synchronous. Cancellation is cooperative and checked between
// blocks through the context passed to Run.
package render
