package config

const (
	defaultWorkDir                = "~/.local/share/songscan/work"
	defaultDataDir                = "~/.local/share/songscan/data"
	defaultLogDir                 = "~/.local/share/songscan/logs"
	defaultRedisAddr              = "localhost:6379"
	defaultQueueTopic             = "songscan:jobs"
	defaultWorkers                = 2
	defaultDequeueBlockSeconds    = 5
	defaultErrorRetrySeconds      = 5
	defaultAcquisitionMode        = "remote"
	defaultSourceBaseURL          = "https://www.youtube.com/watch?v="
	defaultFixtureDurationSeconds = 1
	defaultSampleRate             = 44100
	defaultAnalyzerMode           = "fixed"
	defaultAnalyzerTimeoutSeconds = 120
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Queue: Queue{
			RedisAddr:           defaultRedisAddr,
			Topic:               defaultQueueTopic,
			Workers:             defaultWorkers,
			DequeueBlockSeconds: defaultDequeueBlockSeconds,
			ErrorRetrySeconds:   defaultErrorRetrySeconds,
		},
		Acquisition: Acquisition{
			Mode:                   defaultAcquisitionMode,
			SourceBaseURL:          defaultSourceBaseURL,
			FixtureDurationSeconds: defaultFixtureDurationSeconds,
		},
		Audio: Audio{
			SampleRate: defaultSampleRate,
		},
		Analyzer: Analyzer{
			Mode:           defaultAnalyzerMode,
			TimeoutSeconds: defaultAnalyzerTimeoutSeconds,
		},
		Workflow: Workflow{
			RequireCatalog: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
