package timing

import "subalign/internal/alignment"

// Ticks discretizes millisecond intervals into alignment spans by dividing
// both endpoints by interval.
func Ticks(intervals []Interval, interval int64) ([]alignment.Span, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	spans := make([]alignment.Span, len(intervals))
	for i, iv := range intervals {
		spans[i] = alignment.NewSpan(iv.Start/interval, iv.End/interval)
	}
	return spans, nil
}

// DeltaToMillis converts a tick delta back into milliseconds.
func DeltaToMillis(delta alignment.Delta, interval int64) int64 {
	return int64(delta) * interval
}

// DeltasToMillis converts every tick delta into milliseconds.
func DeltasToMillis(deltas []alignment.Delta, interval int64) []int64 {
	out := make([]int64, len(deltas))
	for i, d := range deltas {
		out[i] = DeltaToMillis(d, interval)
	}
	return out
}
