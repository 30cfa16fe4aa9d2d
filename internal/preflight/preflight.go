// Package preflight runs startup environment checks for the watch daemon.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"trailscribe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Watch root", cfg.Paths.WatchRoot),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckFreeSpace("Output free space", cfg.Paths.OutputDir),
		CheckSecret("LLM API key", cfg.LLM.APIKey, "blog drafts will use fallback templates"),
		CheckSecret("Google access token", cfg.Google.AccessToken, "docs and tracking sheet publishing disabled"),
		CheckSecret("Slack webhook", cfg.Notifications.SlackWebhookURL, "notifications disabled"),
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// minFreeBytes is the floor below which combined-document writes are at risk.
const minFreeBytes = 100 << 20

// CheckFreeSpace verifies the filesystem holding path has headroom for
// combined documents and backups.
func CheckFreeSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (only %d MiB free)", path, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckSecret reports whether an optional credential is configured. A missing
// secret passes as a degraded mode, with the consequence in the detail.
func CheckSecret(name, value, consequence string) Result {
	if strings.TrimSpace(value) == "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("not configured (%s)", consequence)}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}
