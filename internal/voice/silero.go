//go:build cgo

package voice

import (
	"fmt"

	"github.com/streamer45/silero-vad-go/speech"
)

// Silero wraps the Silero VAD ONNX model.
//
// The detector only exposes segment boundaries, so every window is scored in
// isolation: the detector state is reset, the window is followed by one
// window of silence, and the window counts as certain speech when a segment
// starts inside it.
type Silero struct {
	det   *speech.Detector
	width int
	pcm   []float32
}

// NewSilero loads the model at modelPath for the given sample rate.
func NewSilero(modelPath string, sampleRate int) (*Silero, error) {
	width, err := sileroWidth(sampleRate)
	if err != nil {
		return nil, err
	}
	det, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:            modelPath,
		SampleRate:           sampleRate,
		Threshold:            SpeechThreshold,
		MinSilenceDurationMs: 0,
		SpeechPadMs:          0,
	})
	if err != nil {
		return nil, fmt.Errorf("load silero model %s: %w", modelPath, err)
	}
	return &Silero{det: det, width: width, pcm: make([]float32, 2*width)}, nil
}

func (s *Silero) Width() int { return s.width }

func (s *Silero) Predict(window []int16) (float32, error) {
	if len(window) != s.width {
		return 0, fmt.Errorf("window has %d samples, model expects %d", len(window), s.width)
	}
	for i, v := range window {
		s.pcm[i] = float32(v) / 32768
	}
	clear(s.pcm[s.width:])
	if err := s.det.Reset(); err != nil {
		return 0, fmt.Errorf("reset detector: %w", err)
	}
	segments, err := s.det.Detect(s.pcm)
	if err != nil {
		return 0, fmt.Errorf("detect: %w", err)
	}
	if len(segments) > 0 {
		return 1, nil
	}
	return 0, nil
}

func (s *Silero) Close() error {
	if s.det == nil {
		return nil
	}
	err := s.det.Destroy()
	s.det = nil
	return err
}
