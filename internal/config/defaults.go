package config

const (
	defaultProjectsDir          = "~/footage"
	defaultLogDir               = "~/.local/share/roughcut/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultTranscriptionBackend = "whisper"
	defaultTranscriptionModel   = "base"
	defaultTranscriptionWorkers = 4
	defaultTranscribeTimeout    = 3600
	defaultStyle                = "episode"
	defaultDuplicateOverlapPct  = 0.3
	defaultLoudnessTarget       = -14.0
	defaultLoudnessTolerance    = 0.5
	defaultFrameRate            = 30
	defaultWatchInterval        = 10
	defaultQueuePollInterval    = 1
	defaultShutdownTimeout      = 30
	defaultFFprobeTimeout       = 30
	defaultFFmpegCutTimeout     = 300
	defaultErrorRetryInterval   = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			LogDir:      defaultLogDir,
		},
		Transcription: Transcription{
			Backend:        defaultTranscriptionBackend,
			Model:          defaultTranscriptionModel,
			Language:       "en",
			Workers:        defaultTranscriptionWorkers,
			TimeoutSeconds: defaultTranscribeTimeout,
		},
		RoughCut: RoughCut{
			DefaultStyle:        defaultStyle,
			DuplicateOverlapPct: defaultDuplicateOverlapPct,
			LoudnessTarget:      defaultLoudnessTarget,
			LoudnessTolerance:   defaultLoudnessTolerance,
			AutoNormalize:       false,
			AutoTranscribe:      true,
			FrameRate:           defaultFrameRate,
		},
		Workflow: Workflow{
			WatchInterval:      defaultWatchInterval,
			QueuePollInterval:  defaultQueuePollInterval,
			ShutdownTimeout:    defaultShutdownTimeout,
			FFprobeTimeout:     defaultFFprobeTimeout,
			FFmpegCutTimeout:   defaultFFmpegCutTimeout,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
