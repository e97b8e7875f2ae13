// Package framerate detects a systematic framerate mismatch between two
// timelines by trying a small catalog of common cinema and TV ratios.
package framerate

import (
	"subalign/internal/alignment"
	"subalign/internal/progress"
)

// Candidate is one "reference FPS/input FPS" ratio.
type Candidate struct {
	Label string
	Ratio float64
}

const (
	fps25  = 25.0
	fps24  = 24.0
	fpsNTS = 23.976
)

// Catalog lists the ratios tried in order. Identity is implicit.
var Catalog = []Candidate{
	{Label: "25/24", Ratio: fps25 / fps24},
	{Label: "25/23.976", Ratio: fps25 / fpsNTS},
	{Label: "24/25", Ratio: fps24 / fps25},
	{Label: "24/23.976", Ratio: fps24 / fpsNTS},
	{Label: "23.976/25", Ratio: fpsNTS / fps25},
	{Label: "23.976/24", Ratio: fpsNTS / fps24},
}

// IdentityLabel names the ratio 1.
const IdentityLabel = "1"

// Result is the outcome of a resolution. Index is -1 when no candidate beat
// the unscaled input. Offset is the global offset found at the chosen ratio
// and is informational only.
type Result struct {
	Index  int
	Ratio  float64
	Label  string
	Offset alignment.Delta
	Score  float64
}

// Identity reports whether the input should stay unscaled.
func (r Result) Identity() bool {
	return r.Index < 0
}

// Resolver compares global-offset alignments of the input at each ratio.
type Resolver struct {
	Engine alignment.Engine
	// Scoring defaults to alignment.OverlapScoring.
	Scoring alignment.ScoringFunc
	// Candidates defaults to Catalog.
	Candidates []Candidate
	// Progress receives one step per tried ratio, identity included.
	Progress progress.Observer
}

// Resolve returns the ratio that best reconciles in with ref. Ties and
// non-improvements keep the previous best, so identity wins unless a
// candidate scores strictly higher.
func (r Resolver) Resolve(ref, in []alignment.Span) Result {
	engine := r.Engine
	if engine == nil {
		engine = alignment.Default{}
	}
	scoring := r.Scoring
	if scoring == nil {
		scoring = alignment.OverlapScoring
	}
	candidates := r.Candidates
	if candidates == nil {
		candidates = Catalog
	}
	obs := progress.OrNop(r.Progress)
	obs.Init(int64(len(candidates) + 1))

	offset, score := engine.AlignNoSplit(ref, in, scoring, progress.Nop{})
	obs.Advance()
	best := Result{Index: -1, Ratio: 1, Label: IdentityLabel, Offset: offset, Score: score}

	for idx, c := range candidates {
		offset, score := engine.AlignNoSplit(ref, alignment.ScaleAll(in, c.Ratio), scoring, progress.Nop{})
		obs.Advance()
		if score > best.Score {
			best = Result{Index: idx, Ratio: c.Ratio, Label: c.Label, Offset: offset, Score: score}
		}
	}
	obs.Finish()
	return best
}
