package alignment

import (
	"slices"
	"sort"
)

// scorer answers "how well does this span match the reference" in
// O(log n + k) by keeping the reference sorted by start.
type scorer struct {
	ref     []Span
	maxLen  int64
	scoring ScoringFunc
}

func newScorer(ref []Span, scoring ScoringFunc) *scorer {
	sorted := make([]Span, 0, len(ref))
	var maxLen int64
	for _, r := range ref {
		if r.Len() <= 0 {
			continue
		}
		sorted = append(sorted, r)
		maxLen = max(maxLen, r.Len())
	}
	slices.SortFunc(sorted, func(a, b Span) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
	if scoring == nil {
		scoring = StandardScoring
	}
	return &scorer{ref: sorted, maxLen: maxLen, scoring: scoring}
}

func (s *scorer) span(in Span) float64 {
	if in.Len() <= 0 || len(s.ref) == 0 {
		return 0
	}
	// Reference spans starting before in.Start-maxLen end before in starts.
	lower := in.Start - s.maxLen
	first := sort.Search(len(s.ref), func(i int) bool { return s.ref[i].Start >= lower })
	var total float64
	for i := first; i < len(s.ref) && s.ref[i].Start < in.End; i++ {
		r := s.ref[i]
		if ov := overlap(r, in); ov > 0 {
			total += float64(ov) * s.scoring(r.Len(), in.Len())
		}
	}
	return total
}

// Score sums the weighted overlap of every shifted span with every reference
// span. It has no side effects and is safe to call for diagnostics.
func Score(ref, shifted []Span, scoring ScoringFunc) float64 {
	sc := newScorer(ref, scoring)
	var total float64
	for _, s := range shifted {
		total += sc.span(s)
	}
	return total
}
