// Package timing holds the millisecond interval model shared by the codec,
// voice analysis, and alignment stages.
//
// Intervals are converted to integer ticks before alignment and the resulting
// tick deltas are converted back to milliseconds here, so the rounding rules
// for the whole pipeline live in one place. The package also owns the
// timestamp sanitizer that keeps corrected timelines non-negative.
package timing
