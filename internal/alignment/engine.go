package alignment

import "subalign/internal/progress"

// Engine is the alignment backend used by the synchronizer.
type Engine interface {
	AlignNoSplit(ref, in []Span, scoring ScoringFunc, obs progress.Observer) (Delta, float64)
	Align(ref, in []Span, opts Options, obs progress.Observer) []Delta
	Score(ref, shifted []Span, scoring ScoringFunc) float64
}

// Default is the in-process Engine.
type Default struct{}

var _ Engine = Default{}

func (Default) AlignNoSplit(ref, in []Span, scoring ScoringFunc, obs progress.Observer) (Delta, float64) {
	return AlignNoSplit(ref, in, scoring, obs)
}

func (Default) Align(ref, in []Span, opts Options, obs progress.Observer) []Delta {
	return Align(ref, in, opts, obs)
}

func (Default) Score(ref, shifted []Span, scoring ScoringFunc) float64 {
	return Score(ref, shifted, scoring)
}
