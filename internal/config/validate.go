package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Secrets are not required
// here: a missing LLM key degrades generation to the local fallback draft and
// a missing webhook disables notifications, both at runtime.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WatchRoot == "" {
		return errors.New("paths.watch_root must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.OutputDir == c.Paths.WatchRoot {
		return errors.New("paths.output_dir must not equal paths.watch_root")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.PollInterval < 1 {
		return errors.New("watcher.poll_interval must be at least 1 second")
	}
	if c.Watcher.DebounceDelay < 1 {
		return errors.New("watcher.debounce_delay must be at least 1 second")
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
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
