package alignment

import "math"

// Delta is a signed offset in ticks.
type Delta int64

// Span is a tick interval with Start <= End.
type Span struct {
	Start int64
	End   int64
}

// NewSpan builds a span, swapping reversed endpoints.
func NewSpan(start, end int64) Span {
	if start > end {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the span length in ticks.
func (s Span) Len() int64 {
	return s.End - s.Start
}

// Shift moves the span by d ticks.
func (s Span) Shift(d Delta) Span {
	return Span{Start: s.Start + int64(d), End: s.End + int64(d)}
}

// Scale multiplies both endpoints by factor, rounding to whole ticks.
func (s Span) Scale(factor float64) Span {
	return NewSpan(
		int64(math.Round(float64(s.Start)*factor)),
		int64(math.Round(float64(s.End)*factor)),
	)
}

// ScaleAll rescales every span by factor.
func ScaleAll(spans []Span, factor float64) []Span {
	out := make([]Span, len(spans))
	for i, s := range spans {
		out[i] = s.Scale(factor)
	}
	return out
}

// ShiftAll moves every span by d.
func ShiftAll(spans []Span, d Delta) []Span {
	out := make([]Span, len(spans))
	for i, s := range spans {
		out[i] = s.Shift(d)
	}
	return out
}

func overlap(a, b Span) int64 {
	lo := max(a.Start, b.Start)
	hi := min(a.End, b.End)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
