package pipeline

import (
	"subalign/internal/config"
	"subalign/internal/subtitles"
)

// DumpInput as the input path writes the reference timeline instead of
// correcting a file.
const DumpInput = "_"

// Options describes one run.
type Options struct {
	ReferencePath string
	InputPath     string
	OutputPath    string

	SplitPenalty      float64
	IntervalMS        int64
	SpeedOptimization float64
	NoSplit           bool
	GuessFramerate    bool
	AllowNegative     bool

	ReferenceHints subtitles.Hints
	InputHints     subtitles.Hints
	// AudioTrack selects the audio stream when the reference is media.
	AudioTrack int
}

// OptionsFromConfig fills the tuning fields from cfg.
func OptionsFromConfig(cfg *config.Config, reference, input, output string) Options {
	return Options{
		ReferencePath:     reference,
		InputPath:         input,
		OutputPath:        output,
		SplitPenalty:      cfg.Alignment.SplitPenalty,
		IntervalMS:        cfg.Alignment.IntervalMS,
		SpeedOptimization: cfg.Alignment.SpeedOptimization,
		NoSplit:           cfg.Alignment.NoSplit,
		GuessFramerate:    cfg.Alignment.GuessFramerate,
		AllowNegative:     cfg.Timestamps.AllowNegative,
		ReferenceHints: subtitles.Hints{
			Encoding: cfg.Subtitles.ReferenceEncoding,
			FPS:      cfg.Subtitles.ReferenceFPS,
		},
		InputHints: subtitles.Hints{
			Encoding: cfg.Subtitles.InputEncoding,
			FPS:      cfg.Subtitles.InputFPS,
		},
	}
}
