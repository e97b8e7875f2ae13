//go:build !cgo

package voice

import "errors"

// Silero is unavailable without cgo.
type Silero struct{}

// NewSilero always fails when built without cgo.
func NewSilero(modelPath string, sampleRate int) (*Silero, error) {
	if _, err := sileroWidth(sampleRate); err != nil {
		return nil, err
	}
	return nil, errors.New("silero vad unavailable (cgo disabled)")
}

func (s *Silero) Width() int { return 0 }

func (s *Silero) Predict([]int16) (float32, error) {
	return 0, errors.New("silero vad unavailable (cgo disabled)")
}

func (s *Silero) Close() error { return nil }
