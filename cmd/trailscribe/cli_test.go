package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	watchRoot  string
	outputDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	watchRoot := filepath.Join(base, "analysis")
	outputDir := filepath.Join(base, "output")
	logDir := filepath.Join(base, "logs")
	if err := os.MkdirAll(watchRoot, 0o755); err != nil {
		t.Fatalf("mkdir watch root: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\nwatch_root = %q\noutput_dir = %q\nlog_dir = %q\n\n[watcher]\npoll_interval = 1\ndebounce_delay = 1\n\n[logging]\nformat = \"json\"\nlevel = \"error\"\n",
		watchRoot, outputDir, logDir,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		watchRoot:  watchRoot,
		outputDir:  outputDir,
	}
}

func (env *cliTestEnv) writeTranscript(t *testing.T, location, videoFolder, name, body string) {
	t.Helper()
	dir := filepath.Join(env.watchRoot, location, videoFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir video folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	setupCLITestEnv(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	requireContains(t, err.Error(), "already exists")

	out, _, err = runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "")
	if err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	setupCLITestEnv(t)
	t.Setenv("TRAILSCRIBE_LLM_API_KEY", "sk-secret-value")

	out, _, err := runCLI(t, []string{"config", "show"}, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# config path:")
	requireContains(t, out, "[paths]")
	if strings.Contains(out, "sk-secret-value") {
		t.Fatalf("config show leaked secret:\n%s", out)
	}
}

func TestCheckScanHistoryFlow(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeTranscript(t, "Trail Creek", "hike_1", "clip_transcription.json",
		`{"segments": [{"text": "Hello"}, {"text": "world"}]}`)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Trail Creek")
	requireContains(t, out, "1 location(s) pending")

	out, _, err = runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "processed Trail Creek (1 files)")
	requireContains(t, out, "Scan complete: 1 location(s), 1 processed")

	matches, err := filepath.Glob(filepath.Join(env.outputDir, "combined_Trail_Creek_*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one combined artifact, got %v (err %v)", matches, err)
	}

	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check after scan: %v", err)
	}
	requireContains(t, out, "All locations up to date")

	out, _, err = runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	requireContains(t, out, "Scan complete: 1 location(s), 0 processed")

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Trail Creek")
	requireContains(t, out, "combined_Trail_Creek_")

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon\tstopped")
	requireContains(t, out, "Locations combined\t1")
	requireContains(t, out, "Pending locations\t0")

	out, _, err = runCLI(t, []string{"history", "--completions"}, env.configPath)
	if err != nil {
		t.Fatalf("history --completions: %v", err)
	}
	requireContains(t, out, "Trail Creek")
	requireContains(t, out, "ok")
}

func TestTablesUseDisplayLocationNames(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeTranscript(t, "twin_falls loop", "walk_1", "clip_transcription.json",
		`{"segments": [{"text": "Falls ahead"}]}`)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Twin Falls Loop")
	if strings.Contains(out, "twin_falls loop") {
		t.Fatalf("check printed the raw directory name:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Twin Falls Loop")
	requireContains(t, out, "combined_twin_falls_loop_")

	out, _, err = runCLI(t, []string{"history", "--completions"}, env.configPath)
	if err != nil {
		t.Fatalf("history --completions: %v", err)
	}
	requireContains(t, out, "Twin Falls Loop")
}

func TestScanCheckOnlyWritesNothing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeTranscript(t, "Ridge", "walk_1", "clip_transcription.json",
		`{"segments": [{"text": "Quiet morning"}]}`)

	out, _, err := runCLI(t, []string{"scan", "--check-only"}, env.configPath)
	if err != nil {
		t.Fatalf("scan --check-only: %v", err)
	}
	requireContains(t, out, "1 location(s) pending")

	matches, err := filepath.Glob(filepath.Join(env.outputDir, "combined_*.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("check-only scan wrote artifacts: %v", matches)
	}
}

func TestTestNotifyWithoutWebhook(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "No Slack webhook configured")
}
