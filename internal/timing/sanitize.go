package timing

// Sanitize guarantees that no interval starts before zero unless
// allowNegative is set. When a shift is needed, the whole timeline moves
// forward by the magnitude of the most negative start, so gaps and ordering
// are preserved. The returned offset is the applied shift (0 when nothing
// moved) and hadNegative reports whether any input start was negative.
//
// The input slice is never modified.
func Sanitize(intervals []Interval, allowNegative bool) (out []Interval, offset int64, hadNegative bool) {
	out = make([]Interval, len(intervals))
	copy(out, intervals)

	var minStart int64
	for _, iv := range intervals {
		if iv.Start < minStart {
			minStart = iv.Start
		}
	}
	if minStart >= 0 {
		return out, 0, false
	}
	if allowNegative {
		return out, 0, true
	}

	offset = -minStart
	for i := range out {
		out[i] = out[i].Shift(offset)
	}
	return out, offset, true
}
