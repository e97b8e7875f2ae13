package pipeline

import (
	"subalign/internal/logging"
	"subalign/internal/shiftgroup"
	"subalign/internal/timing"
)

func (r *Runner) logTimelines(reference, input *timeline) {
	logger := r.logger()
	for _, tl := range []struct {
		role string
		t    *timeline
	}{{"reference", reference}, {"input", input}} {
		attrs := []logging.Attr{
			logging.String("role", tl.role),
			logging.Path(tl.t.path),
			logging.Int("lines", len(tl.t.intervals)),
			logging.String("covered", timing.FormatMillis(timing.TotalLen(tl.t.intervals))),
		}
		if first, last, ok := timing.Span(tl.t.intervals); ok {
			attrs = append(attrs,
				logging.String("first", timing.FormatMillis(first)),
				logging.String("last", timing.FormatMillis(last)),
			)
		}
		logger.Info("timeline loaded", logging.Args(attrs...)...)
	}
}

func (r *Runner) logGroups(groups []shiftgroup.Summary) {
	logger := r.logger()
	for _, g := range groups {
		logger.Info("shifted block",
			logging.Int("lines", g.Lines),
			logging.String("from", timing.FormatMillis(g.First)),
			logging.String("to", timing.FormatMillis(g.Last)),
			logging.String("length", timing.FormatMillis(g.Length())),
			logging.String("shift", timing.FormatDelta(g.DeltaMillis)),
			logging.Float64("score", g.Score),
			logging.Float64("score_per_line", g.ScorePerLine),
		)
	}
}

func (r *Runner) warnEmpty(reference, input *timeline) {
	logger := r.logger()
	if len(reference.intervals) == 0 {
		logging.WarnWithContext(logger, "reference has no lines", "empty_reference",
			logging.Path(reference.path),
			logging.String(logging.FieldImpact, "input timings are kept unchanged"),
		)
	}
	if len(input.intervals) == 0 {
		logging.WarnWithContext(logger, "file with incorrect subtitles has no lines", "empty_input",
			logging.Path(input.path),
			logging.String(logging.FieldImpact, "output contains no lines"),
		)
	}
}

func (r *Runner) warnNegative(result *Result, allowNegative bool) {
	if !result.HadNegative {
		return
	}
	logger := r.logger()
	if allowNegative {
		logging.WarnWithContext(logger, "some subtitles now have negative timings", "negative_timestamps",
			logging.Bool("shifted", false),
			logging.String(logging.FieldImpact, "negative timestamps are written and may make the file invalid"),
			logging.String(logging.FieldErrorHint, "drop --allow-negative-timestamps to shift the timeline instead"),
		)
		return
	}
	logging.WarnWithContext(logger, "some subtitles now have negative timings", "negative_timestamps",
		logging.Bool("shifted", true),
		logging.String("offset", timing.FormatDelta(result.ShiftedBy)),
		logging.String(logging.FieldImpact, "the whole timeline was moved forward"),
		logging.String(logging.FieldErrorHint, "pass --allow-negative-timestamps to keep negative timings"),
	)
}
