package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Transcription.Backend = strings.ToLower(strings.TrimSpace(c.Transcription.Backend))
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = defaultTranscriptionBackend
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	if c.Transcription.Workers <= 0 {
		c.Transcription.Workers = defaultTranscriptionWorkers
	}
	if c.Transcription.OpenAIAPIKey == "" {
		c.Transcription.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	c.RoughCut.DefaultStyle = strings.ToLower(strings.TrimSpace(c.RoughCut.DefaultStyle))
	if c.RoughCut.DefaultStyle == "" {
		c.RoughCut.DefaultStyle = defaultStyle
	}
	if c.RoughCut.DuplicateOverlapPct == 0 {
		c.RoughCut.DuplicateOverlapPct = defaultDuplicateOverlapPct
	}
	if c.RoughCut.LoudnessTarget == 0 {
		c.RoughCut.LoudnessTarget = defaultLoudnessTarget
	}
	if c.RoughCut.LoudnessTolerance == 0 {
		c.RoughCut.LoudnessTolerance = defaultLoudnessTolerance
	}
	if c.RoughCut.FrameRate == 0 {
		c.RoughCut.FrameRate = defaultFrameRate
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
