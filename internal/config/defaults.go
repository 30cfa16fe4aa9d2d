package config

const (
	defaultWatchRoot      = "~/video-processor/analysis"
	defaultOutputDir      = "~/.local/share/trailscribe/output"
	defaultLogDir         = "~/.local/share/trailscribe/logs"
	defaultPollInterval   = 5
	defaultDebounceDelay  = 30
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel       = "anthropic/claude-sonnet-4"
	defaultLLMTimeoutSecs = 60
	defaultDocsBaseURL    = "https://docs.googleapis.com"
	defaultSheetsBaseURL  = "https://sheets.googleapis.com"
	defaultGoogleTimeout  = 30
	defaultNotifyTimeout  = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchRoot: defaultWatchRoot,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Watcher: Watcher{
			PollInterval:  defaultPollInterval,
			DebounceDelay: defaultDebounceDelay,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSecs,
		},
		Google: Google{
			DocsBaseURL:   defaultDocsBaseURL,
			SheetsBaseURL: defaultSheetsBaseURL,
			TimeoutSecs:   defaultGoogleTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
