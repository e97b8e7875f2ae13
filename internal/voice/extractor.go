package voice

import "subalign/internal/timing"

type extractorState int

const (
	stateOutside extractorState = iota
	stateInside
)

// Extractor builds speech segments from a stream of per-chunk flags.
//
// A segment opens on the first speech flag seen while outside. While inside,
// a non-speech flag closes it once more than gapMerge chunks have passed
// since the last speech flag; the segment ends after that last speech chunk.
// With gapMerge 0 the first non-speech chunk closes the segment.
type Extractor struct {
	chunkMillis int64
	gapMerge    int64

	state      extractorState
	index      int64
	start      int64
	lastSpeech int64
	segments   []timing.Interval
}

// NewExtractor returns an extractor for chunks of chunkMillis milliseconds.
// Negative gapMerge values are treated as 0.
func NewExtractor(chunkMillis int64, gapMerge int) *Extractor {
	return &Extractor{chunkMillis: chunkMillis, gapMerge: int64(max(gapMerge, 0))}
}

// Push consumes the flag of the next chunk.
func (e *Extractor) Push(speech bool) {
	i := e.index
	e.index++
	if speech {
		if e.state == stateOutside {
			e.state = stateInside
			e.start = i
		}
		e.lastSpeech = i
		return
	}
	if e.state == stateInside && i-e.lastSpeech > e.gapMerge {
		e.close()
	}
}

// Finish closes any open segment and returns all segments. The extractor
// must not be used afterwards.
func (e *Extractor) Finish() []timing.Interval {
	if e.state == stateInside {
		e.close()
	}
	return e.segments
}

// Chunks returns the number of flags pushed so far.
func (e *Extractor) Chunks() int64 {
	return e.index
}

func (e *Extractor) close() {
	e.segments = append(e.segments, timing.NewInterval(e.start*e.chunkMillis, (e.lastSpeech+1)*e.chunkMillis))
	e.state = stateOutside
}

// ExtractSegments runs flags through a fresh Extractor.
func ExtractSegments(flags []bool, chunkMillis int64, gapMerge int) []timing.Interval {
	e := NewExtractor(chunkMillis, gapMerge)
	for _, f := range flags {
		e.Push(f)
	}
	return e.Finish()
}

// FilterMinDuration drops segments shorter than minMillis.
func FilterMinDuration(segments []timing.Interval, minMillis int64) []timing.Interval {
	out := make([]timing.Interval, 0, len(segments))
	for _, s := range segments {
		if s.Len() >= minMillis {
			out = append(out, s)
		}
	}
	return out
}
