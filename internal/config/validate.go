package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateVAD(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAlignment() error {
	if c.Alignment.SplitPenalty < 0 || c.Alignment.SplitPenalty > 1000 {
		return fmt.Errorf("alignment.split_penalty must be between 0 and 1000, got %v", c.Alignment.SplitPenalty)
	}
	if c.Alignment.IntervalMS < 1 {
		return fmt.Errorf("alignment.interval_ms must be at least 1, got %d", c.Alignment.IntervalMS)
	}
	if c.Alignment.SpeedOptimization < 0 {
		return fmt.Errorf("alignment.speed_optimization must be non-negative, got %v", c.Alignment.SpeedOptimization)
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.ReferenceFPS <= 0 {
		return errors.New("subtitles.reference_fps must be positive")
	}
	if c.Subtitles.InputFPS <= 0 {
		return errors.New("subtitles.input_fps must be positive")
	}
	return nil
}

func (c *Config) validateVAD() error {
	if c.VAD.GapMergeChunks < 0 {
		return fmt.Errorf("vad.gap_merge_chunks must be non-negative, got %d", c.VAD.GapMergeChunks)
	}
	if c.VAD.MinSpanMS < 0 {
		return fmt.Errorf("vad.min_span_ms must be non-negative, got %d", c.VAD.MinSpanMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "trace", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
