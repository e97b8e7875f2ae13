package voice

import (
	"fmt"

	"subalign/internal/media/decoder"
	"subalign/internal/timing"
)

// SpeechThreshold is the probability above which a window counts as speech.
const SpeechThreshold = 0.5

// Model returns the speech probability of one window of exactly Width()
// samples.
type Model interface {
	Predict(window []int16) (float32, error)
	Width() int
	Close() error
}

// Receiver buffers decoded samples into model-width windows and feeds the
// thresholded predictions to an Extractor.
type Receiver struct {
	model     Model
	extractor *Extractor
	buf       []int16
	segments  []timing.Interval
	finished  bool
}

var _ decoder.Receiver = (*Receiver)(nil)

// NewReceiver returns a receiver using model and the gap-merge threshold.
// The chunk duration is the model width at the decoder sample rate.
func NewReceiver(model Model, gapMerge int) *Receiver {
	width := model.Width()
	return &Receiver{
		model:     model,
		extractor: NewExtractor(WindowMillis(width), gapMerge),
		buf:       make([]int16, 0, 2*width),
	}
}

// WindowMillis is the duration of a width-sample window at the decoder rate.
func WindowMillis(width int) int64 {
	return int64(width) * 1000 / decoder.SampleRate
}

func (r *Receiver) PushSamples(samples []int16) error {
	if r.finished {
		return fmt.Errorf("samples pushed after finish")
	}
	width := r.model.Width()
	r.buf = append(r.buf, samples...)
	consumed := 0
	for len(r.buf)-consumed >= width {
		if err := r.predict(r.buf[consumed : consumed+width]); err != nil {
			return err
		}
		consumed += width
	}
	if consumed > 0 {
		r.buf = append(r.buf[:0], r.buf[consumed:]...)
	}
	return nil
}

// Finish zero-pads any leftover samples to a full window, predicts it, and
// closes the extractor.
func (r *Receiver) Finish() error {
	if r.finished {
		return nil
	}
	if len(r.buf) > 0 {
		width := r.model.Width()
		window := make([]int16, width)
		copy(window, r.buf)
		r.buf = r.buf[:0]
		if err := r.predict(window); err != nil {
			return err
		}
	}
	r.finished = true
	r.segments = r.extractor.Finish()
	return nil
}

// Segments returns the extracted segments once Finish has run.
func (r *Receiver) Segments() []timing.Interval {
	return r.segments
}

// Windows returns the number of windows classified so far.
func (r *Receiver) Windows() int64 {
	return r.extractor.Chunks()
}

func (r *Receiver) predict(window []int16) error {
	p, err := r.model.Predict(window)
	if err != nil {
		return &predictError{err: err}
	}
	r.extractor.Push(p > SpeechThreshold)
	return nil
}
