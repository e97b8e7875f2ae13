package config

import (
	"fmt"
	"os"
	"strings"
)

// Normalize trims strings, fills blanks with defaults, and expands paths.
// Load calls it; callers that mutate a Config afterwards may call it again.
func (c *Config) Normalize() error {
	c.normalizeSubtitles()
	if err := c.normalizeVAD(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.ReferenceEncoding = normalizeEncoding(c.Subtitles.ReferenceEncoding)
	c.Subtitles.InputEncoding = normalizeEncoding(c.Subtitles.InputEncoding)
}

func normalizeEncoding(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return defaultEncoding
	}
	return value
}

func (c *Config) normalizeVAD() error {
	if value, ok := os.LookupEnv("SUBALIGN_VAD_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.VAD.ModelPath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.VAD.ModelPath) == "" {
		c.VAD.ModelPath = defaultModelPath
	}
	var err error
	if c.VAD.ModelPath, err = expandPath(strings.TrimSpace(c.VAD.ModelPath)); err != nil {
		return fmt.Errorf("vad.model_path: %w", err)
	}
	c.VAD.FFmpegBinary = strings.TrimSpace(c.VAD.FFmpegBinary)
	if c.VAD.FFmpegBinary == "" {
		c.VAD.FFmpegBinary = defaultFFmpegBinary
	}
	c.VAD.FFprobeBinary = strings.TrimSpace(c.VAD.FFprobeBinary)
	if c.VAD.FFprobeBinary == "" {
		c.VAD.FFprobeBinary = defaultFFprobeBinary
	}
	if c.VAD.ProgressEvery <= 0 {
		c.VAD.ProgressEvery = defaultProgressEvery
	}
	return nil
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	var err error
	if c.Cache.Dir, err = expandPath(strings.TrimSpace(c.Cache.Dir)); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
