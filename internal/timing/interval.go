package timing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInterval reports a non-positive tick size.
var ErrInvalidInterval = errors.New("tick interval must be a positive number of milliseconds")

// Interval is a span of time in milliseconds. Start <= End always holds for
// values built with NewInterval.
type Interval struct {
	Start int64
	End   int64
}

// NewInterval builds an interval, swapping the endpoints when they are given
// in reverse order.
func NewInterval(start, end int64) Interval {
	if start > end {
		start, end = end, start
	}
	return Interval{Start: start, End: end}
}

// Len returns the interval length in milliseconds.
func (iv Interval) Len() int64 {
	return iv.End - iv.Start
}

// Shift moves both endpoints by delta milliseconds.
func (iv Interval) Shift(delta int64) Interval {
	return Interval{Start: iv.Start + delta, End: iv.End + delta}
}

// Scale multiplies both endpoints by factor, rounding to the nearest
// millisecond.
func (iv Interval) Scale(factor float64) Interval {
	if factor == 1 {
		return iv
	}
	return NewInterval(scaleMillis(iv.Start, factor), scaleMillis(iv.End, factor))
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s --> %s", FormatMillis(iv.Start), FormatMillis(iv.End))
}

func scaleMillis(ms int64, factor float64) int64 {
	return int64(math.Round(float64(ms) * factor))
}

// FormatMillis renders a millisecond timestamp as [-]HH:MM:SS.mmm.
func FormatMillis(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	d := time.Duration(ms) * time.Millisecond
	h := int64(d / time.Hour)
	m := int64(d/time.Minute) % 60
	s := int64(d/time.Second) % 60
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, s, ms%1000)
}

// FormatDelta renders a signed millisecond offset with an explicit sign.
func FormatDelta(ms int64) string {
	if ms >= 0 {
		return "+" + FormatMillis(ms)
	}
	return FormatMillis(ms)
}

// Span returns the earliest start and latest end across intervals. ok is
// false for an empty slice.
func Span(intervals []Interval) (first, last int64, ok bool) {
	if len(intervals) == 0 {
		return 0, 0, false
	}
	first, last = intervals[0].Start, intervals[0].End
	for _, iv := range intervals[1:] {
		first = min(first, iv.Start)
		last = max(last, iv.End)
	}
	return first, last, true
}

// TotalLen sums the lengths of all intervals.
func TotalLen(intervals []Interval) int64 {
	var total int64
	for _, iv := range intervals {
		total += iv.Len()
	}
	return total
}
