// Package shiftgroup groups per-line alignment deltas into chronologically
// contiguous blocks and scores each block for reporting.
//
// Nothing here feeds back into the alignment decision: the groups exist so
// the user can see which parts of the file moved and by how much.
package shiftgroup

import (
	"cmp"
	"slices"

	"subalign/internal/alignment"
	"subalign/internal/timing"
)

// Pair is the delta chosen for one line together with the line's interval.
type Pair struct {
	Delta alignment.Delta
	Line  timing.Interval
}

// Group is a maximal run of chronologically adjacent lines sharing a delta.
type Group struct {
	Delta   alignment.Delta
	Members []timing.Interval
}

// Pairs zips deltas with lines. The slices must have equal length.
func Pairs(deltas []alignment.Delta, lines []timing.Interval) []Pair {
	n := min(len(deltas), len(lines))
	out := make([]Pair, n)
	for i := range n {
		out[i] = Pair{Delta: deltas[i], Line: lines[i]}
	}
	return out
}

// Groups stably sorts pairs by the earlier endpoint of each line and starts a
// new group whenever the delta changes.
func Groups(pairs []Pair) []Group {
	sorted := slices.Clone(pairs)
	slices.SortStableFunc(sorted, func(a, b Pair) int {
		return cmp.Compare(min(a.Line.Start, a.Line.End), min(b.Line.Start, b.Line.End))
	})

	var groups []Group
	for _, p := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Delta == p.Delta {
			groups[n-1].Members = append(groups[n-1].Members, p.Line)
			continue
		}
		groups = append(groups, Group{Delta: p.Delta, Members: []timing.Interval{p.Line}})
	}
	return groups
}

// Summary describes one group for the report.
type Summary struct {
	Lines int
	// First and Last are the earliest and latest member start in ms.
	First int64
	Last  int64
	// DeltaMillis is the group's shift in ms.
	DeltaMillis  int64
	Score        float64
	ScorePerLine float64
}

// Length is the distance between the first and last member start.
func (s Summary) Length() int64 {
	return s.Last - s.First
}

// Report scores every group's members, shifted by the group's delta, against
// the whole reference timeline. The cost grows with groups × reference size.
func Report(groups []Group, ref []alignment.Span, interval int64, engine alignment.Engine, scoring alignment.ScoringFunc) ([]Summary, error) {
	if engine == nil {
		engine = alignment.Default{}
	}
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		spans, err := timing.Ticks(g.Members, interval)
		if err != nil {
			return nil, err
		}
		s := Summary{
			Lines:       len(g.Members),
			DeltaMillis: timing.DeltaToMillis(g.Delta, interval),
		}
		for i, m := range g.Members {
			if i == 0 || m.Start < s.First {
				s.First = m.Start
			}
			if i == 0 || m.Start > s.Last {
				s.Last = m.Start
			}
		}
		s.Score = engine.Score(ref, alignment.ShiftAll(spans, g.Delta), scoring)
		if s.Lines > 0 {
			s.ScorePerLine = s.Score / float64(s.Lines)
		}
		out = append(out, s)
	}
	return out, nil
}
