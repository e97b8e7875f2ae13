package progress

import (
	"log/slog"

	"subalign/internal/logging"
)

// Log reports progress as structured log lines, emitting only when the
// completed percentage crosses a sampler bucket.
type Log struct {
	logger  *slog.Logger
	stage   string
	sampler *logging.ProgressSampler
	total   int64
	done    int64
}

// NewLog builds a log-backed observer. bucket is the percentage step between
// emitted lines; non-positive values use the sampler default.
func NewLog(logger *slog.Logger, stage string, bucket float64) *Log {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Log{
		logger:  logger,
		stage:   stage,
		sampler: logging.NewProgressSampler(bucket),
	}
}

func (l *Log) Init(total int64) {
	l.total = total
	l.done = 0
	l.sampler.Reset()
	l.logger.Info("stage started",
		logging.String(logging.FieldStage, l.stage),
		logging.Int64("steps", total),
	)
}

func (l *Log) Advance() {
	l.done++
	if l.total <= 0 {
		return
	}
	percent := float64(l.done) * 100 / float64(l.total)
	if percent > 100 {
		percent = 100
	}
	if l.sampler.ShouldLog(percent, l.stage) {
		l.logger.Debug("stage progress",
			logging.String(logging.FieldStage, l.stage),
			logging.Float64("percent", percent),
		)
	}
}

func (l *Log) Finish() {
	l.logger.Info("stage finished",
		logging.String(logging.FieldStage, l.stage),
		logging.Int64("steps", l.done),
	)
}
