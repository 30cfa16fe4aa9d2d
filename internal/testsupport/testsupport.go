// Package testsupport provides shared constructors for tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"trailscribe/internal/config"
	"trailscribe/internal/ledger"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchRoot = filepath.Join(base, "analysis")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Watcher.PollInterval = 1
	cfg.Watcher.DebounceDelay = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithSlackWebhook sets the Slack webhook URL on the test config.
func WithSlackWebhook(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.SlackWebhookURL = url
	}
}

// NewLedger opens a throwaway ledger store under the test's temp space and
// closes it on cleanup.
func NewLedger(t testing.TB) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open test ledger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
