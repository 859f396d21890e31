package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateRoughCut(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ProjectsDir == "" {
		return errors.New("paths.projects_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Backend {
	case "whisper", "openai":
	default:
		return fmt.Errorf("transcription.backend must be whisper or openai, got %q", c.Transcription.Backend)
	}
	if c.Transcription.Backend == "openai" && c.Transcription.OpenAIAPIKey == "" {
		return errors.New("transcription.openai_api_key is required for the openai backend (or set OPENAI_API_KEY)")
	}
	if c.Transcription.Workers < 1 {
		return errors.New("transcription.workers must be positive")
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		return errors.New("transcription.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRoughCut() error {
	if c.RoughCut.DuplicateOverlapPct <= 0 || c.RoughCut.DuplicateOverlapPct > 1 {
		return errors.New("roughcut.duplicate_overlap_pct must be in (0, 1]")
	}
	if c.RoughCut.LoudnessTarget >= 0 {
		return errors.New("roughcut.loudness_target must be negative LUFS")
	}
	if c.RoughCut.LoudnessTolerance <= 0 {
		return errors.New("roughcut.loudness_tolerance must be positive")
	}
	if c.RoughCut.FrameRate <= 0 {
		return errors.New("roughcut.frame_rate must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	checks := map[string]int{
		"workflow.watch_interval":       c.Workflow.WatchInterval,
		"workflow.queue_poll_interval":  c.Workflow.QueuePollInterval,
		"workflow.shutdown_timeout":     c.Workflow.ShutdownTimeout,
		"workflow.ffprobe_timeout":      c.Workflow.FFprobeTimeout,
		"workflow.ffmpeg_cut_timeout":   c.Workflow.FFmpegCutTimeout,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
	}
	for name, value := range checks {
		if value <= 0 {
			return fmt.Errorf("%s must be positive (seconds)", name)
		}
	}
	return nil
}
