package decoder

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"subalign/internal/progress"
)

const (
	// SampleRate is the rate every decoder delivers.
	SampleRate = 16000
	// ChunkSamples is the number of samples per pushed chunk (10 ms).
	ChunkSamples = 160
)

// Receiver consumes decoded samples. PushSamples is called synchronously for
// every chunk; a returned error stops decoding. Finish is called exactly
// once after the last chunk of a successful decode.
type Receiver interface {
	PushSamples(samples []int16) error
	Finish() error
}

// Decoder decodes one audio track of path into r. The observer receives the
// expected chunk count (0 when unknown) and one Advance per chunk.
type Decoder interface {
	Decode(ctx context.Context, path string, track int, r Receiver, obs progress.Observer) error
}

// ForPath returns WAV for 16 kHz 16-bit PCM .wav files and ffmpeg otherwise.
func ForPath(path string, ffmpeg *FFmpeg) Decoder {
	if strings.EqualFold(filepath.Ext(path), ".wav") && IsNativeWAV(path) {
		return WAV{}
	}
	return ffmpeg
}

// Auto resolves the decoder per path on every call.
type Auto struct {
	FFmpeg *FFmpeg
	Logger *slog.Logger
}

func (a Auto) Decode(ctx context.Context, path string, track int, r Receiver, obs progress.Observer) error {
	d := ForPath(path, a.FFmpeg)
	if a.Logger != nil {
		name := "ffmpeg"
		if _, ok := d.(WAV); ok {
			name = "wav"
		}
		a.Logger.Debug("decoder selected", slog.String("path", path), slog.String("decoder", name))
	}
	return d.Decode(ctx, path, track, r, obs)
}

func chunkTotal(samples int64) int64 {
	if samples <= 0 {
		return 0
	}
	return (samples + ChunkSamples - 1) / ChunkSamples
}
