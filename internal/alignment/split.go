package alignment

import (
	"slices"

	"subalign/internal/progress"
)

const maxCandidates = 64

// Options tune the split-aware search.
type Options struct {
	// SplitPenalty is charged every time two chronologically adjacent input
	// spans get different offsets. With StandardScoring one perfectly
	// matched span is worth 1.
	SplitPenalty float64
	// Speed reduces the number of candidate offsets considered. Zero keeps
	// the full candidate set.
	Speed   float64
	Scoring ScoringFunc
}

func (o Options) candidateLimit() int {
	if o.Speed <= 0 {
		return maxCandidates
	}
	return max(8, int(float64(maxCandidates)/(1+o.Speed)))
}

// candidates picks the local maxima of the global score curve with the
// highest scores, plus offset 0.
func candidates(points []breakpoint, limit int) []Delta {
	peaks := make([]breakpoint, 0, len(points))
	lastPeak := -2
	for idx, p := range points {
		if p.value <= scoreEpsilon {
			continue
		}
		if idx > 0 && points[idx-1].value > p.value+scoreEpsilon {
			continue
		}
		if idx+1 < len(points) && points[idx+1].value > p.value+scoreEpsilon {
			continue
		}
		// A plateau yields a run of equal peaks; keep its first point.
		plateau := lastPeak == idx-1
		lastPeak = idx
		if plateau {
			continue
		}
		peaks = append(peaks, p)
	}
	slices.SortStableFunc(peaks, func(a, b breakpoint) int {
		switch {
		case better(a, b):
			return -1
		case better(b, a):
			return 1
		default:
			return 0
		}
	})
	if len(peaks) > limit {
		peaks = peaks[:limit]
	}
	out := make([]Delta, 0, len(peaks)+1)
	out = append(out, 0)
	for _, p := range peaks {
		if p.delta != 0 {
			out = append(out, p.delta)
		}
	}
	return out
}

// Align returns one offset per input span, in input order.
//
// Candidate offsets come from the peaks of the global score curve. A Viterbi
// pass over the input spans in chronological order then picks, for every
// span, the candidate maximizing total score minus SplitPenalty per offset
// change. Equal-score paths prefer keeping the previous offset.
func Align(ref, in []Span, opts Options, obs progress.Observer) []Delta {
	obs = progress.OrNop(obs)
	deltas := make([]Delta, len(in))
	if len(in) == 0 || len(ref) == 0 {
		obs.Init(0)
		obs.Finish()
		return deltas
	}
	scoring := opts.Scoring
	if scoring == nil {
		scoring = StandardScoring
	}

	cands := candidates(scoreCurve(ref, in, scoring, progress.Nop{}), opts.candidateLimit())

	order := make([]int, len(in))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case in[a].Start < in[b].Start:
			return -1
		case in[a].Start > in[b].Start:
			return 1
		default:
			return 0
		}
	})

	sc := newScorer(ref, scoring)
	k := len(cands)
	prev := make([]float64, k)
	cur := make([]float64, k)
	back := make([][]int32, len(order))

	obs.Init(int64(len(order)))
	for step, idx := range order {
		span := in[idx]
		back[step] = make([]int32, k)
		bestPrev, bestPrevAt := 0, 0.0
		if step > 0 {
			for c := 0; c < k; c++ {
				if c == 0 || prev[c] > bestPrevAt {
					bestPrev, bestPrevAt = c, prev[c]
				}
			}
		}
		for c := 0; c < k; c++ {
			gain := sc.span(span.Shift(cands[c]))
			if step == 0 {
				cur[c] = gain
				back[step][c] = int32(c)
				continue
			}
			stay := prev[c]
			jump := bestPrevAt - opts.SplitPenalty
			if stay >= jump {
				cur[c] = stay + gain
				back[step][c] = int32(c)
			} else {
				cur[c] = jump + gain
				back[step][c] = int32(bestPrev)
			}
		}
		prev, cur = cur, prev
		obs.Advance()
	}
	obs.Finish()

	end := 0
	for c := 1; c < k; c++ {
		if prev[c] > prev[end]+scoreEpsilon {
			end = c
		}
	}
	for step := len(order) - 1; step >= 0; step-- {
		deltas[order[step]] = cands[end]
		end = int(back[step][end])
	}
	return deltas
}
