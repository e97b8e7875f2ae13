package voice

import (
	"context"
	"errors"
	"log/slog"

	"subalign/internal/logging"
	"subalign/internal/media/decoder"
	"subalign/internal/progress"
	"subalign/internal/timing"
)

// ModelFactory builds a fresh model for one analysis.
type ModelFactory func() (Model, error)

// Analyzer decodes a media track and returns its speech segments.
type Analyzer struct {
	Decoder  decoder.Decoder
	NewModel ModelFactory
	// GapMerge is the number of silent windows bridged inside one segment.
	GapMerge int
	// Progress receives one step per ProgressEvery decoded chunks.
	Progress      progress.Observer
	ProgressEvery int64
	Logger        *slog.Logger
}

// Analyze returns the speech segments of the track-th audio track of path.
// Model construction or prediction failures yield *ModelError, decoding
// failures *DecodeError.
func (a *Analyzer) Analyze(ctx context.Context, path string, track int) ([]timing.Interval, error) {
	logger := a.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	model, err := a.NewModel()
	if err != nil {
		return nil, newModelError(path, err)
	}
	defer func() {
		if cerr := model.Close(); cerr != nil {
			logger.Debug("close voice model", logging.Error(cerr))
		}
	}()

	r := NewReceiver(model, a.GapMerge)
	obs := progress.Prescale(progress.OrNop(a.Progress), a.ProgressEvery)
	if err := a.Decoder.Decode(ctx, path, track, r, obs); err != nil {
		var pe *predictError
		if errors.As(err, &pe) {
			return nil, newModelError(path, pe.err)
		}
		return nil, newDecodeError(path, err)
	}

	segments := r.Segments()
	logger.Debug("voice activity analyzed",
		logging.Path(path),
		logging.Int("track", track),
		logging.Int64("windows", r.Windows()),
		logging.Int("segments", len(segments)),
		logging.Int64("speech_ms", timing.TotalLen(segments)),
	)
	return segments, nil
}
