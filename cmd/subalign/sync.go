package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subalign/internal/config"
	"subalign/internal/media/decoder"
	"subalign/internal/pipeline"
	"subalign/internal/preflight"
	"subalign/internal/progress"
	"subalign/internal/shiftgroup"
	"subalign/internal/subtitles"
	"subalign/internal/timing"
)

// syncFlags holds the per-run overrides. Only flags the user set replace
// configuration values.
type syncFlags struct {
	splitPenalty      float64
	intervalMS        int64
	allowNegative     bool
	referenceFPS      float64
	inputFPS          float64
	referenceEncoding string
	inputEncoding     string
	speedOptimization float64
	noSplit           bool
	noFramerate       bool
	audioTrack        int
	noCache           bool
}

func (f *syncFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.splitPenalty, "split-penalty", "p", 7, "Penalty for splitting the input into differently shifted parts (0-1000)")
	fs.Int64VarP(&f.intervalMS, "interval", "i", 1, "Smallest step between candidate offsets in milliseconds")
	fs.BoolVarP(&f.allowNegative, "allow-negative-timestamps", "n", false, "Keep negative timestamps instead of shifting the file forward")
	fs.Float64Var(&f.referenceFPS, "sub-fps-ref", 30, "Frame rate of a MicroDVD reference file")
	fs.Float64Var(&f.inputFPS, "sub-fps-inc", 30, "Frame rate of a MicroDVD incorrect file")
	fs.StringVar(&f.referenceEncoding, "encoding-ref", subtitles.AutoEncoding, "Character encoding of the reference file")
	fs.StringVar(&f.inputEncoding, "encoding-inc", subtitles.AutoEncoding, "Character encoding of the incorrect file")
	fs.Float64VarP(&f.speedOptimization, "speed-optimization", "O", 1, "Trade accuracy for speed (0 disables)")
	fs.BoolVarP(&f.noSplit, "no-split", "l", false, "Shift the whole file by a single offset")
	fs.BoolVarP(&f.noFramerate, "disable-fps-guessing", "g", false, "Do not try framerate corrections")
	fs.IntVar(&f.audioTrack, "index", 0, "Audio track of a media reference")
	fs.BoolVar(&f.noCache, "no-cache", false, "Analyze media references without the voice timeline cache")
}

// apply validates the set flags and copies them onto cfg.
func (f *syncFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("split-penalty") {
		if f.splitPenalty < 0 || f.splitPenalty > 1000 {
			return &argumentError{Name: "--split-penalty", Value: formatFloat(f.splitPenalty), Reason: "must be between 0 and 1000"}
		}
		cfg.Alignment.SplitPenalty = f.splitPenalty
	}
	if fs.Changed("interval") {
		if f.intervalMS < 1 {
			return &argumentError{Name: "--interval", Value: strconv.FormatInt(f.intervalMS, 10), Reason: "must be at least 1"}
		}
		cfg.Alignment.IntervalMS = f.intervalMS
	}
	if fs.Changed("speed-optimization") {
		if f.speedOptimization < 0 {
			return &argumentError{Name: "--speed-optimization", Value: formatFloat(f.speedOptimization), Reason: "must not be negative"}
		}
		cfg.Alignment.SpeedOptimization = f.speedOptimization
	}
	if fs.Changed("sub-fps-ref") {
		if f.referenceFPS <= 0 {
			return &argumentError{Name: "--sub-fps-ref", Value: formatFloat(f.referenceFPS), Reason: "must be positive"}
		}
		cfg.Subtitles.ReferenceFPS = f.referenceFPS
	}
	if fs.Changed("sub-fps-inc") {
		if f.inputFPS <= 0 {
			return &argumentError{Name: "--sub-fps-inc", Value: formatFloat(f.inputFPS), Reason: "must be positive"}
		}
		cfg.Subtitles.InputFPS = f.inputFPS
	}
	if fs.Changed("encoding-ref") {
		cfg.Subtitles.ReferenceEncoding = f.referenceEncoding
	}
	if fs.Changed("encoding-inc") {
		cfg.Subtitles.InputEncoding = f.inputEncoding
	}
	if fs.Changed("allow-negative-timestamps") {
		cfg.Timestamps.AllowNegative = f.allowNegative
	}
	if fs.Changed("no-split") {
		cfg.Alignment.NoSplit = f.noSplit
	}
	if fs.Changed("disable-fps-guessing") {
		cfg.Alignment.GuessFramerate = !f.noFramerate
	}
	if fs.Changed("no-cache") {
		cfg.Cache.Enabled = !f.noCache
	}
	if f.audioTrack < 0 {
		return &argumentError{Name: "--index", Value: strconv.Itoa(f.audioTrack), Reason: "must not be negative"}
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func runSync(cmd *cobra.Command, ctx *commandContext, flags *syncFlags, args []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := flags.apply(cmd, &cfg); err != nil {
		return err
	}

	logger, err := ctx.newLogger(&cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := pipeline.OptionsFromConfig(&cfg, args[0], args[1], args[2])
	opts.AudioTrack = flags.audioTrack

	if err := checkRun(&cfg, opts); err != nil {
		return err
	}

	runner, closeRunner, err := pipeline.NewDefault(cmd.Context(), &cfg, logger, observers(cmd.ErrOrStderr(), logger))
	if err != nil {
		return err
	}
	defer closeRunner()

	out := cmd.OutOrStdout()
	if opts.InputPath == pipeline.DumpInput {
		result, err := runner.DumpReference(cmd.Context(), opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d reference lines to %s\n", result.Lines, result.OutputPath)
		return nil
	}

	result, err := runner.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printSyncReport(out, result)
	return nil
}

// checkRun fails early when the output cannot be written or a media
// reference has no decoder available.
func checkRun(cfg *config.Config, opts pipeline.Options) error {
	results := []preflight.Result{preflight.CheckOutputPath(opts.OutputPath)}
	if !subtitles.IsSubtitlePath(opts.ReferencePath) && !decoder.IsNativeWAV(opts.ReferencePath) {
		for _, status := range preflight.CheckSystemDeps(cfg) {
			if status.Name != "FFmpeg" {
				continue
			}
			results = append(results, preflight.Result{
				Name:   status.Name,
				Passed: status.Available,
				Detail: status.Detail,
			})
		}
	}
	failed := preflight.Failed(results)
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s: %s", failed[0].Name, failed[0].Detail)
}

// observers shows progress bars on a terminal and falls back to sampled
// progress logs otherwise.
func observers(stderr io.Writer, logger *slog.Logger) pipeline.ObserverFunc {
	terminal := false
	if f, ok := stderr.(*os.File); ok {
		terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return func(stage string) progress.Observer {
		if terminal {
			return progress.NewBar(stderr, stageDescription(stage))
		}
		return progress.NewLog(logger, stage, 10)
	}
}

func stageDescription(stage string) string {
	switch stage {
	case pipeline.StageVoice:
		return "extracting audio"
	case pipeline.StageFramerate:
		return "trying framerates"
	case pipeline.StageAlign:
		return "synchronizing"
	default:
		return stage
	}
}

func printSyncReport(w io.Writer, result *pipeline.Result) {
	fmt.Fprintf(w, "Synchronized %d lines against %d reference lines (%s)\n",
		result.InputLines, result.ReferenceLines, result.Format)
	if !result.Framerate.Identity() {
		fmt.Fprintf(w, "Framerate correction: %s (ratio %.5f)\n", result.Framerate.Label, result.Framerate.Ratio)
	}
	if len(result.Groups) > 0 {
		fmt.Fprintln(w, renderTable(
			[]string{"From", "To", "Lines", "Shift", "Score/Line"},
			groupRows(result.Groups),
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
		))
	}
	if result.ShiftedBy > 0 {
		fmt.Fprintf(w, "Shifted forward by %s to avoid negative timestamps\n", timing.FormatMillis(result.ShiftedBy))
	}
	fmt.Fprintf(w, "Wrote %s\n", result.OutputPath)
}

func groupRows(groups []shiftgroup.Summary) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			timing.FormatMillis(g.First),
			timing.FormatMillis(g.Last),
			strconv.Itoa(g.Lines),
			timing.FormatDelta(g.DeltaMillis),
			strconv.FormatFloat(g.ScorePerLine, 'f', 2, 64),
		})
	}
	return rows
}
