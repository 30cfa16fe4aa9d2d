package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeWatcher()
	c.normalizeLLM()
	c.normalizeGoogle()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WatchRoot, err = expandPath(c.Paths.WatchRoot); err != nil {
		return fmt.Errorf("paths.watch_root: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWatcher() {
	if c.Watcher.PollInterval <= 0 {
		c.Watcher.PollInterval = defaultPollInterval
	}
	if c.Watcher.DebounceDelay <= 0 {
		c.Watcher.DebounceDelay = defaultDebounceDelay
	}
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("TRAILSCRIBE_LLM_API_KEY"); ok {
			c.LLM.APIKey = value
		}
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSecs
	}
}

func (c *Config) normalizeGoogle() {
	if c.Google.AccessToken == "" {
		if value, ok := os.LookupEnv("GOOGLE_ACCESS_TOKEN"); ok {
			c.Google.AccessToken = value
		}
	}
	c.Google.AccessToken = strings.TrimSpace(c.Google.AccessToken)
	c.Google.DocsBaseURL = strings.TrimRight(strings.TrimSpace(c.Google.DocsBaseURL), "/")
	if c.Google.DocsBaseURL == "" {
		c.Google.DocsBaseURL = defaultDocsBaseURL
	}
	c.Google.SheetsBaseURL = strings.TrimRight(strings.TrimSpace(c.Google.SheetsBaseURL), "/")
	if c.Google.SheetsBaseURL == "" {
		c.Google.SheetsBaseURL = defaultSheetsBaseURL
	}
	if c.Google.TimeoutSecs <= 0 {
		c.Google.TimeoutSecs = defaultGoogleTimeout
	}
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.SlackWebhookURL == "" {
		if value, ok := os.LookupEnv("SLACK_WEBHOOK_URL"); ok {
			c.Notifications.SlackWebhookURL = strings.TrimSpace(value)
		}
	}
	c.Notifications.SlackWebhookURL = strings.TrimSpace(c.Notifications.SlackWebhookURL)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
