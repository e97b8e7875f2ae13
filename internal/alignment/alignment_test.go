package alignment

import (
	"math"
	"testing"
)

type countingObserver struct {
	total    int64
	advances int64
	finished bool
}

func (c *countingObserver) Init(total int64) { c.total = total }
func (c *countingObserver) Advance()         { c.advances++ }
func (c *countingObserver) Finish()          { c.finished = true }

func TestNewSpanSwapsReversedEndpoints(t *testing.T) {
	s := NewSpan(30, 10)
	if s.Start != 10 || s.End != 30 {
		t.Fatalf("unexpected span %+v", s)
	}
	if s.Len() != 20 {
		t.Fatalf("expected length 20, got %d", s.Len())
	}
}

func TestSpanScaleRounds(t *testing.T) {
	got := Span{Start: 1000, End: 2000}.Scale(25.0 / 24.0)
	if got != (Span{Start: 1042, End: 2083}) {
		t.Fatalf("unexpected scaled span %+v", got)
	}
}

func TestStandardScoringPerfectMatchIsOne(t *testing.T) {
	if got := StandardScoring(10, 10) * 10; math.Abs(got-1) > 1e-12 {
		t.Fatalf("expected 1, got %f", got)
	}
	if got := StandardScoring(5, 10) * 5; math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("expected 0.25, got %f", got)
	}
	if StandardScoring(0, 10) != 0 {
		t.Fatal("expected zero-length spans to score 0")
	}
}

func TestScoreIsPure(t *testing.T) {
	ref := []Span{{0, 10}, {20, 25}}
	in := []Span{{0, 10}, {20, 25}}
	first := Score(ref, in, StandardScoring)
	second := Score(ref, in, StandardScoring)
	if first != second {
		t.Fatalf("score changed between calls: %f vs %f", first, second)
	}
	if math.Abs(first-2) > 1e-9 {
		t.Fatalf("expected score 2, got %f", first)
	}
	if in[0] != (Span{0, 10}) {
		t.Fatalf("input mutated: %+v", in)
	}
}

func TestAlignNoSplitRecoversOffset(t *testing.T) {
	ref := []Span{{0, 10}, {20, 25}, {40, 60}}
	in := ShiftAll(ref, -7)
	obs := &countingObserver{}

	delta, score := AlignNoSplit(ref, in, StandardScoring, obs)
	if delta != 7 {
		t.Fatalf("expected delta 7, got %d", delta)
	}
	if math.Abs(score-3) > 1e-9 {
		t.Fatalf("expected score 3, got %f", score)
	}
	if obs.total != int64(len(in)) || obs.advances != int64(len(in)) || !obs.finished {
		t.Fatalf("unexpected progress %+v", obs)
	}
}

func TestAlignNoSplitAlignedInputStaysPut(t *testing.T) {
	ref := []Span{{0, 10}, {20, 25}, {40, 60}}
	delta, _ := AlignNoSplit(ref, ref, StandardScoring, nil)
	if delta != 0 {
		t.Fatalf("expected delta 0, got %d", delta)
	}
}

func TestAlignNoSplitPrefersSmallestOffsetOnPlateau(t *testing.T) {
	ref := []Span{{0, 100}}
	in := []Span{{40, 50}}
	delta, score := AlignNoSplit(ref, in, OverlapScoring, nil)
	if delta != 0 {
		t.Fatalf("expected delta 0, got %d", delta)
	}
	if score != 10 {
		t.Fatalf("expected score 10, got %f", score)
	}
}

func TestAlignNoSplitEmptyInputs(t *testing.T) {
	obs := &countingObserver{}
	delta, score := AlignNoSplit(nil, []Span{{0, 10}}, StandardScoring, obs)
	if delta != 0 || score != 0 {
		t.Fatalf("expected zero result, got %d %f", delta, score)
	}
	if !obs.finished {
		t.Fatal("expected observer to be finished")
	}
}

func TestAlignSplitsIndependentBlocks(t *testing.T) {
	ref := []Span{{0, 10}, {20, 30}, {40, 50}, {100, 110}, {120, 130}, {140, 150}}
	in := append(ShiftAll(ref[:3], -5), ShiftAll(ref[3:], 8)...)
	obs := &countingObserver{}

	deltas := Align(ref, in, Options{SplitPenalty: 0.5, Speed: 0, Scoring: StandardScoring}, obs)
	want := []Delta{5, 5, 5, -8, -8, -8}
	if len(deltas) != len(want) {
		t.Fatalf("expected %d deltas, got %d", len(want), len(deltas))
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Fatalf("delta %d: expected %d, got %d (all %v)", i, want[i], deltas[i], deltas)
		}
	}
	if obs.total != int64(len(in)) || obs.advances != int64(len(in)) || !obs.finished {
		t.Fatalf("unexpected progress %+v", obs)
	}
}

func TestAlignLargePenaltyKeepsSingleOffset(t *testing.T) {
	ref := []Span{{0, 10}, {20, 30}, {40, 50}, {100, 110}, {120, 130}, {140, 150}}
	in := append(ShiftAll(ref[:3], -5), ShiftAll(ref[3:], 8)...)

	deltas := Align(ref, in, Options{SplitPenalty: 100, Speed: 1}, nil)
	for i := 1; i < len(deltas); i++ {
		if deltas[i] != deltas[0] {
			t.Fatalf("expected a single offset, got %v", deltas)
		}
	}
}

func TestAlignKeepsInputOrder(t *testing.T) {
	ref := []Span{{0, 10}, {100, 110}}
	in := []Span{{103, 113}, {3, 13}}
	deltas := Align(ref, in, Options{SplitPenalty: 7}, nil)
	if deltas[0] != -3 || deltas[1] != -3 {
		t.Fatalf("unexpected deltas %v", deltas)
	}
}

func TestAlignEmptyReferenceReturnsZeros(t *testing.T) {
	deltas := Align(nil, []Span{{0, 10}, {20, 30}}, Options{SplitPenalty: 7}, nil)
	if len(deltas) != 2 || deltas[0] != 0 || deltas[1] != 0 {
		t.Fatalf("unexpected deltas %v", deltas)
	}
}

func TestCandidateLimitShrinksWithSpeed(t *testing.T) {
	if got := (Options{}).candidateLimit(); got != maxCandidates {
		t.Fatalf("expected %d, got %d", maxCandidates, got)
	}
	if got := (Options{Speed: 1}).candidateLimit(); got != 32 {
		t.Fatalf("expected 32, got %d", got)
	}
	if got := (Options{Speed: 100}).candidateLimit(); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
}
