package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath        = "~/.config/subalign/config.toml"
	projectConfigName        = "subalign.toml"
	defaultSplitPenalty      = 7.0
	defaultIntervalMS        = 1
	defaultSpeedOptimization = 1.0
	defaultSubtitleFPS       = 30.0
	defaultEncoding          = "auto"
	defaultModelPath         = "~/.local/share/subalign/silero_vad.onnx"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultGapMergeChunks    = 0
	defaultMinSpanMS         = 500
	defaultProgressEvery     = 100
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Alignment: Alignment{
			SplitPenalty:      defaultSplitPenalty,
			IntervalMS:        defaultIntervalMS,
			SpeedOptimization: defaultSpeedOptimization,
			GuessFramerate:    true,
		},
		Subtitles: Subtitles{
			ReferenceFPS:      defaultSubtitleFPS,
			InputFPS:          defaultSubtitleFPS,
			ReferenceEncoding: defaultEncoding,
			InputEncoding:     defaultEncoding,
		},
		VAD: VAD{
			ModelPath:      defaultModelPath,
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			GapMergeChunks: defaultGapMergeChunks,
			MinSpanMS:      defaultMinSpanMS,
			ProgressEvery:  defaultProgressEvery,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     defaultCacheDir(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "subalign")
	}
	return "~/.cache/subalign"
}
