package voice

import (
	"fmt"
	"os"
)

// sileroWidth returns the window size Silero expects at sampleRate.
func sileroWidth(sampleRate int) (int, error) {
	switch sampleRate {
	case 16000:
		return 512, nil
	case 8000:
		return 256, nil
	default:
		return 0, fmt.Errorf("unsupported sample rate %d (want 8000 or 16000)", sampleRate)
	}
}

// SileroFactory returns a factory loading the model at modelPath for the
// given sample rate. The model file is checked before the runtime loads it.
func SileroFactory(modelPath string, sampleRate int) ModelFactory {
	return func() (Model, error) {
		if _, err := sileroWidth(sampleRate); err != nil {
			return nil, err
		}
		if _, err := os.Stat(modelPath); err != nil {
			return nil, fmt.Errorf("silero model: %w", err)
		}
		m, err := NewSilero(modelPath, sampleRate)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
