// Package alignment computes tick offsets that line an input timeline up with
// a reference timeline.
//
// Everything here works on integer tick spans. AlignNoSplit finds the single
// offset that maximizes the total weighted overlap; Align assigns one offset
// per input span, trading overlap against a penalty for every change of
// offset between chronologically adjacent spans. Score is the pure scoring
// primitive both are built on and is also used for diagnostics.
package alignment
