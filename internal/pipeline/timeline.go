package pipeline

import (
	"context"
	"fmt"

	"subalign/internal/logging"
	"subalign/internal/subtitles"
	"subalign/internal/timing"
	"subalign/internal/vadcache"
	"subalign/internal/voice"
)

// VoiceAnalyzer returns the speech segments of one audio track.
type VoiceAnalyzer interface {
	Analyze(ctx context.Context, path string, track int) ([]timing.Interval, error)
}

var _ VoiceAnalyzer = (*voice.Analyzer)(nil)

// TimelineCache stores analyzed timelines between runs.
type TimelineCache interface {
	Get(ctx context.Context, key string) ([]timing.Interval, bool, error)
	Put(ctx context.Context, key, sourcePath string, track int, segments []timing.Interval) error
}

var _ TimelineCache = (*vadcache.Store)(nil)

// timeline is a loaded reference or input.
type timeline struct {
	path      string
	intervals []timing.Interval
	// file is set when the timeline came from a subtitle file.
	file *subtitles.File
}

func (r *Runner) openSubtitle(path string, hints subtitles.Hints) (*timeline, error) {
	file, err := subtitles.Open(path, hints)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("subtitle file loaded",
		logging.Path(path),
		logging.String("format", file.Format.String()),
		logging.String("encoding", file.Encoding),
		logging.Int("lines", len(file.Entries())),
	)
	return &timeline{path: path, intervals: file.Intervals(), file: file}, nil
}

// loadReference reads a subtitle reference, or analyzes the voice activity
// of a media reference.
func (r *Runner) loadReference(ctx context.Context, opts Options) (*timeline, error) {
	if subtitles.IsSubtitlePath(opts.ReferencePath) {
		return r.openSubtitle(opts.ReferencePath, opts.ReferenceHints)
	}
	segments, err := r.voiceTimeline(ctx, opts.ReferencePath, opts.AudioTrack)
	if err != nil {
		return nil, err
	}
	kept := voice.FilterMinDuration(segments, r.MinSpanMS)
	r.logger().Info("reference voice activity ready",
		logging.Path(opts.ReferencePath),
		logging.Int("segments", len(segments)),
		logging.Int("kept", len(kept)),
		logging.Int64("min_span_ms", r.MinSpanMS),
	)
	return &timeline{path: opts.ReferencePath, intervals: kept}, nil
}

func (r *Runner) voiceTimeline(ctx context.Context, path string, track int) ([]timing.Interval, error) {
	if r.Voice == nil {
		return nil, fmt.Errorf("reference %s is not a subtitle file and voice analysis is unavailable", path)
	}
	logger := r.logger()

	var key string
	if r.Cache != nil {
		k, err := vadcache.Key(path, track, r.CacheParams...)
		if err != nil {
			logging.WarnWithContext(logger, "voice cache key unavailable", "cache_key_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "timeline will not be cached"),
			)
		} else {
			key = k
			segments, ok, err := r.Cache.Get(ctx, key)
			switch {
			case err != nil:
				logging.WarnWithContext(logger, "voice cache read failed", "cache_read_failed",
					logging.Path(path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "audio will be analyzed again"),
				)
			case ok:
				logger.Info("voice activity loaded from cache", logging.Path(path), logging.Int("segments", len(segments)))
				return segments, nil
			}
		}
	}

	logger.Info("analyzing reference audio", logging.Path(path), logging.Int("track", track))
	segments, err := r.Voice.Analyze(ctx, path, track)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if err := r.Cache.Put(ctx, key, path, track, segments); err != nil {
			logging.WarnWithContext(logger, "voice cache write failed", "cache_write_failed",
				logging.Path(path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run will analyze the audio again"),
			)
		}
	}
	return segments, nil
}
