package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subalign/internal/alignment"
	"subalign/internal/fileutil"
	"subalign/internal/framerate"
	"subalign/internal/logging"
	"subalign/internal/progress"
	"subalign/internal/shiftgroup"
	"subalign/internal/subtitles"
	"subalign/internal/timing"
)

// Stage names passed to ObserverFunc.
const (
	StageVoice     = "voice"
	StageFramerate = "framerate"
	StageAlign     = "align"
)

// ObserverFunc returns the progress observer for a stage.
type ObserverFunc func(stage string) progress.Observer

// Runner executes synchronizations. The zero value works for subtitle
// references; media references need Voice.
type Runner struct {
	Engine alignment.Engine
	Voice  VoiceAnalyzer
	// Cache is optional. CacheParams are folded into every cache key.
	Cache       TimelineCache
	CacheParams []string
	// MinSpanMS drops shorter voice segments from media references.
	MinSpanMS int64
	Observers ObserverFunc
	Logger    *slog.Logger
}

// Result summarizes a finished run.
type Result struct {
	OutputPath     string
	Format         subtitles.Format
	ReferenceLines int
	InputLines     int
	Framerate      framerate.Result
	// Deltas holds the applied shift of every input line in ms, file order.
	Deltas []int64
	Groups []shiftgroup.Summary
	// ShiftedBy is the forward shift applied to avoid negative timestamps.
	ShiftedBy   int64
	HadNegative bool
	// Lines is the number of lines written.
	Lines int
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

func (r *Runner) engine() alignment.Engine {
	if r.Engine == nil {
		return alignment.Default{}
	}
	return r.Engine
}

func (r *Runner) observer(stage string) progress.Observer {
	if r.Observers == nil {
		return progress.Nop{}
	}
	return progress.OrNop(r.Observers(stage))
}

// Run synchronizes opts.InputPath to opts.ReferencePath and writes the
// result to opts.OutputPath. Nothing is written unless every step succeeds.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.InputPath == DumpInput {
		return r.DumpReference(ctx, opts)
	}
	if opts.IntervalMS <= 0 {
		return nil, timing.ErrInvalidInterval
	}
	logger := r.logger()
	started := time.Now()

	// The input is opened first so a bad path fails before audio analysis.
	input, err := r.openSubtitle(opts.InputPath, opts.InputHints)
	if err != nil {
		return nil, err
	}
	if !subtitles.ValidExtension(input.file.Format, opts.OutputPath) {
		return nil, &FormatMismatchError{InputPath: opts.InputPath, OutputPath: opts.OutputPath, Format: input.file.Format}
	}
	reference, err := r.loadReference(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.logTimelines(reference, input)

	refTicks, err := timing.Ticks(reference.intervals, opts.IntervalMS)
	if err != nil {
		return nil, err
	}
	inTicks, err := timing.Ticks(input.intervals, opts.IntervalMS)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OutputPath:     opts.OutputPath,
		Format:         input.file.Format,
		ReferenceLines: len(reference.intervals),
		InputLines:     len(input.intervals),
		Framerate:      framerate.Result{Index: -1, Ratio: 1, Label: framerate.IdentityLabel},
	}
	if opts.GuessFramerate {
		result.Framerate = framerate.Resolver{Engine: r.engine(), Progress: r.observer(StageFramerate)}.Resolve(refTicks, inTicks)
		logger.Info(fmt.Sprintf("'reference FPS/input FPS' ratio is %s", result.Framerate.Label),
			logging.Stage(StageFramerate),
			logging.Float64("ratio", result.Framerate.Ratio),
			logging.Float64("score", result.Framerate.Score),
		)
		if !result.Framerate.Identity() {
			inTicks = alignment.ScaleAll(inTicks, result.Framerate.Ratio)
		}
	}
	ratio := result.Framerate.Ratio

	tickDeltas := r.align(refTicks, inTicks, opts)
	result.Deltas = timing.DeltasToMillis(tickDeltas, opts.IntervalMS)

	scaled := make([]timing.Interval, len(input.intervals))
	for i, iv := range input.intervals {
		scaled[i] = iv.Scale(ratio)
	}
	groups := shiftgroup.Groups(shiftgroup.Pairs(tickDeltas, scaled))
	result.Groups, err = shiftgroup.Report(groups, refTicks, opts.IntervalMS, r.engine(), alignment.StandardScoring)
	if err != nil {
		return nil, err
	}
	r.logGroups(result.Groups)

	r.warnEmpty(reference, input)

	corrected := make([]timing.Interval, len(scaled))
	for i, iv := range scaled {
		corrected[i] = iv.Shift(result.Deltas[i])
	}
	corrected, result.ShiftedBy, result.HadNegative = timing.Sanitize(corrected, opts.AllowNegative)
	r.warnNegative(result, opts.AllowNegative)

	if err := input.file.UpdateEntries(corrected); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpdateEntries, err)
	}
	data, err := input.file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	if !input.file.Format.HasEndTimes() {
		logging.WarnWithContext(logger, "output format has no end timestamps", "limited_output_format",
			logging.Path(opts.OutputPath),
			logging.String(logging.FieldImpact, "each line lasts until the next one starts, so retimed gaps may look wrong"),
			logging.String(logging.FieldErrorHint, "prefer a format with end timestamps such as .srt"),
		)
	}
	if err := fileutil.WriteFileAtomic(opts.OutputPath, data, 0o644); err != nil {
		logging.ErrorWithContext(logger, "write corrected subtitles failed", "output_write_failed",
			logging.Path(opts.OutputPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the output directory is writable"),
		)
		return nil, err
	}
	result.Lines = len(corrected)
	logger.Info("corrected subtitles written",
		logging.Path(opts.OutputPath),
		logging.Int("lines", result.Lines),
		logging.Int("groups", len(result.Groups)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (r *Runner) align(ref, in []alignment.Span, opts Options) []alignment.Delta {
	obs := r.observer(StageAlign)
	if opts.NoSplit {
		delta, score := r.engine().AlignNoSplit(ref, in, alignment.StandardScoring, obs)
		r.logger().Debug("global offset found",
			logging.Stage(StageAlign),
			logging.Int64("delta_ticks", int64(delta)),
			logging.Float64("score", score),
		)
		deltas := make([]alignment.Delta, len(in))
		for i := range deltas {
			deltas[i] = delta
		}
		return deltas
	}
	return r.engine().Align(ref, in, alignment.Options{
		SplitPenalty: opts.SplitPenalty,
		Speed:        opts.SpeedOptimization,
		Scoring:      alignment.StandardScoring,
	}, obs)
}

// DumpReference writes the reference timeline as an SRT file whose lines
// are numbered "line 0", "line 1", and so on.
func (r *Runner) DumpReference(ctx context.Context, opts Options) (*Result, error) {
	reference, err := r.loadReference(ctx, opts)
	if err != nil {
		return nil, err
	}
	entries := make([]subtitles.Entry, len(reference.intervals))
	for i, iv := range reference.intervals {
		entries[i] = subtitles.Entry{Interval: iv, Text: fmt.Sprintf("line %d", i)}
	}
	if err := fileutil.WriteFileAtomic(opts.OutputPath, subtitles.CreateSRT(entries), 0o644); err != nil {
		return nil, err
	}
	r.logger().Info("reference timeline written",
		logging.Path(opts.OutputPath),
		logging.Int("lines", len(entries)),
	)
	return &Result{
		OutputPath:     opts.OutputPath,
		Format:         subtitles.FormatSRT,
		ReferenceLines: len(entries),
		Lines:          len(entries),
		Framerate:      framerate.Result{Index: -1, Ratio: 1, Label: framerate.IdentityLabel},
	}, nil
}
