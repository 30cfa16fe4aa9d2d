package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"trailscribe/internal/config"
	"trailscribe/internal/ledger"
	"trailscribe/internal/logging"
	"trailscribe/internal/notifications"
	"trailscribe/internal/pipeline"
	"trailscribe/internal/processor"
	"trailscribe/internal/services/blogwriter"
	"trailscribe/internal/services/gdocs"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
}

func (c *commandContext) openLedger() (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ledger.Open(cfg.LedgerPath())
}

// newProcessor assembles the full check-and-combine engine, including the
// downstream pipeline collaborators.
func (c *commandContext) newProcessor(store *ledger.Store, logger *slog.Logger) (*processor.Processor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	generator := blogwriter.NewClient(blogwriter.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	publisher := gdocs.NewClient(gdocs.Config{
		AccessToken:   cfg.Google.AccessToken,
		DocsBaseURL:   cfg.Google.DocsBaseURL,
		SheetsBaseURL: cfg.Google.SheetsBaseURL,
		TimeoutSecs:   cfg.Google.TimeoutSecs,
	})
	notifier := notifications.NewService(cfg)

	invoker := pipeline.NewInvoker(generator, publisher, notifier, store, cfg.DraftsDir(), logger)
	return processor.New(cfg.Paths.WatchRoot, cfg.Paths.OutputDir, store, invoker, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
