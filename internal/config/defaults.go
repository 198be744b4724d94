package config

const (
	defaultWorkDir             = "~/.local/share/courier/work"
	defaultLogDir              = "~/.local/share/courier/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultMaxItemsPerRun      = 3
	defaultUploadPartSizeKB    = 512
	defaultProgressStepPercent = 10
	defaultUploadMaxRetries    = 4
	defaultItemCooldownSeconds = 0.2
	defaultWorkerTimeout       = 120
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Worker: Worker{
			RequestTimeout: defaultWorkerTimeout,
		},
		Transfer: Transfer{
			MaxItemsPerRun:      defaultMaxItemsPerRun,
			UploadPartSizeKB:    defaultUploadPartSizeKB,
			ProgressStepPercent: defaultProgressStepPercent,
			UploadMaxRetries:    defaultUploadMaxRetries,
			ItemCooldownSeconds: defaultItemCooldownSeconds,
		},
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
