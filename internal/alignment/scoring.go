package alignment

// ScoringFunc returns the score earned per overlapping tick of a reference
// span of length refLen and an input span of length inLen.
type ScoringFunc func(refLen, inLen int64) float64

// OverlapScoring rewards raw overlap: every overlapping tick is worth 1.
func OverlapScoring(_, _ int64) float64 {
	return 1
}

// StandardScoring normalizes overlap so that two identical spans that match
// exactly score 1, and spans of different lengths score at most
// (shorter/longer)^2.
func StandardScoring(refLen, inLen int64) float64 {
	if refLen <= 0 || inLen <= 0 {
		return 0
	}
	lo := float64(min(refLen, inLen))
	hi := float64(max(refLen, inLen))
	return lo / (hi * hi)
}
