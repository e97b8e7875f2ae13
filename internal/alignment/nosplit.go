package alignment

import (
	"math"
	"slices"

	"subalign/internal/progress"
)

const scoreEpsilon = 1e-9

type slopeEvent struct {
	pos   int64
	slope float64
}

// breakpoint is the value of the global score function at a tick offset where
// its slope changes.
type breakpoint struct {
	delta Delta
	value float64
}

// scoreCurve returns the global score sampled at every slope change, in
// ascending delta order. Offset 0 is always included so an already aligned
// input can win ties.
//
// For one reference span r and one input span i, the overlap as a function
// of the offset d is a trapezoid: it rises from r.Start-i.End, is flat
// between the two "contained" offsets and falls to zero at r.End-i.Start.
// Summing the slope changes of all trapezoids and sweeping once yields the
// exact piecewise-linear total.
func scoreCurve(ref, in []Span, scoring ScoringFunc, obs progress.Observer) []breakpoint {
	if scoring == nil {
		scoring = StandardScoring
	}
	obs.Init(int64(len(in)))
	events := make([]slopeEvent, 0, 4*len(ref))
	for _, i := range in {
		obs.Advance()
		if i.Len() <= 0 {
			continue
		}
		for _, r := range ref {
			if r.Len() <= 0 {
				continue
			}
			w := scoring(r.Len(), i.Len())
			if w == 0 {
				continue
			}
			rise := r.Start - i.End
			top1 := r.Start - i.Start
			top2 := r.End - i.End
			fall := r.End - i.Start
			events = append(events,
				slopeEvent{pos: rise, slope: w},
				slopeEvent{pos: min(top1, top2), slope: -w},
				slopeEvent{pos: max(top1, top2), slope: -w},
				slopeEvent{pos: fall, slope: w},
			)
		}
	}
	obs.Finish()

	if len(events) == 0 {
		return []breakpoint{{delta: 0, value: 0}}
	}
	slices.SortFunc(events, func(a, b slopeEvent) int {
		switch {
		case a.pos < b.pos:
			return -1
		case a.pos > b.pos:
			return 1
		default:
			return 0
		}
	})

	points := make([]breakpoint, 0, len(events)/2+2)
	var value, slope float64
	prev := events[0].pos
	zeroSeen := false
	for idx := 0; idx < len(events); {
		pos := events[idx].pos
		if !zeroSeen && prev < 0 && pos > 0 {
			points = append(points, breakpoint{delta: 0, value: value + slope*float64(-prev)})
			zeroSeen = true
		}
		value += slope * float64(pos-prev)
		points = append(points, breakpoint{delta: Delta(pos), value: value})
		if pos == 0 {
			zeroSeen = true
		}
		for idx < len(events) && events[idx].pos == pos {
			slope += events[idx].slope
			idx++
		}
		prev = pos
	}
	if !zeroSeen {
		// Zero lies outside the support of the curve, where the score is 0.
		zero := breakpoint{delta: 0, value: 0}
		if prev <= 0 {
			points = append(points, zero)
		} else {
			points = append([]breakpoint{zero}, points...)
		}
	}
	return points
}

// better reports whether a beats b: a higher score, or an equal score at a
// smaller absolute offset.
func better(a, b breakpoint) bool {
	if a.value > b.value+scoreEpsilon {
		return true
	}
	if math.Abs(a.value-b.value) <= scoreEpsilon {
		return absDelta(a.delta) < absDelta(b.delta)
	}
	return false
}

func absDelta(d Delta) Delta {
	if d < 0 {
		return -d
	}
	return d
}

// AlignNoSplit returns the single offset that maximizes the total score of
// in against ref, and that score.
func AlignNoSplit(ref, in []Span, scoring ScoringFunc, obs progress.Observer) (Delta, float64) {
	obs = progress.OrNop(obs)
	if len(ref) == 0 || len(in) == 0 {
		obs.Init(0)
		obs.Finish()
		return 0, 0
	}
	points := scoreCurve(ref, in, scoring, obs)
	best := points[0]
	for _, p := range points[1:] {
		if better(p, best) {
			best = p
		}
	}
	return best.delta, best.value
}
