package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"subalign/internal/alignment"
	"subalign/internal/config"
	"subalign/internal/logging"
	"subalign/internal/media/decoder"
	"subalign/internal/vadcache"
	"subalign/internal/voice"
)

// NewDefault wires the production runner from cfg: ffmpeg or WAV decoding,
// the Silero voice model, and the timeline cache when enabled. The returned
// close function releases the cache.
func NewDefault(ctx context.Context, cfg *config.Config, logger *slog.Logger, observers ObserverFunc) (*Runner, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		Engine:    alignment.Default{},
		MinSpanMS: cfg.VAD.MinSpanMS,
		Observers: observers,
		Logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
	analyzer := &voice.Analyzer{
		Decoder: decoder.Auto{
			FFmpeg: decoder.NewFFmpeg(cfg.VAD.FFmpegBinary, cfg.VAD.FFprobeBinary, logger),
			Logger: logging.NewComponentLogger(logger, "decoder"),
		},
		NewModel:      voice.SileroFactory(cfg.VAD.ModelPath, decoder.SampleRate),
		GapMerge:      cfg.VAD.GapMergeChunks,
		ProgressEvery: cfg.VAD.ProgressEvery,
		Logger:        logging.NewComponentLogger(logger, "voice"),
	}
	if observers != nil {
		analyzer.Progress = observers(StageVoice)
	}
	runner.Voice = analyzer

	closer := func() {}
	if cfg.Cache.Enabled {
		store, err := vadcache.Open(ctx, cfg.Cache.Dir)
		if err != nil {
			logging.WarnWithContext(logger, "voice cache unavailable", "cache_open_failed",
				logging.Path(cfg.Cache.Dir),
				logging.Error(err),
				logging.String(logging.FieldImpact, "reference audio is analyzed on every run"),
				logging.String(logging.FieldErrorHint, "check cache.dir or pass --no-cache"),
			)
		} else {
			runner.Cache = store
			runner.CacheParams = CacheParams(cfg)
			closer = func() {
				if err := store.Close(); err != nil {
					logger.Debug("close voice cache", logging.Error(err))
				}
			}
		}
	}
	return runner, closer, nil
}

// CacheParams lists the settings that change an analyzed timeline.
func CacheParams(cfg *config.Config) []string {
	return []string{
		"model=" + cfg.VAD.ModelPath,
		"gap=" + strconv.Itoa(cfg.VAD.GapMergeChunks),
		"rate=" + strconv.Itoa(decoder.SampleRate),
	}
}
