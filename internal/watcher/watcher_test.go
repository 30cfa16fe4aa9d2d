package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trailscribe/internal/watcher"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func waitForEvent(t *testing.T, w *watcher.Watcher) watcher.Event {
	t.Helper()
	select {
	case event := <-w.Events():
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("no event within deadline")
		return watcher.Event{}
	}
}

func TestWatcherEmitsOnNewTranscript(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "Trail", "trail_1", "old_transcription.json")
	writeFile(t, existing, `[]`)

	w := watcher.New(root, 10*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Pre-existing files stay quiet.
	select {
	case event := <-w.Events():
		t.Fatalf("unexpected event for existing file: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}

	created := filepath.Join(root, "Trail", "trail_2", "new_transcription.json")
	writeFile(t, created, `[{"text":"hi"}]`)

	event := waitForEvent(t, w)
	if event.Location != "Trail" {
		t.Errorf("location: got %q", event.Location)
	}
	if event.Path != created {
		t.Errorf("path: got %q want %q", event.Path, created)
	}
}

func TestWatcherEmitsOnRemoval(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Lake", "lake_1", "clip_suggestion.json")
	writeFile(t, path, `[]`)

	w := watcher.New(root, 10*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	event := waitForEvent(t, w)
	if event.Location != "Lake" || event.Path != path {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestWatcherIgnoresNonJSONAndShallowFiles(t *testing.T) {
	root := t.TempDir()
	w := watcher.New(root, 10*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(root, "Trail", "trail_1", "notes.txt"), "x")
	writeFile(t, filepath.Join(root, "stray.json"), "{}")

	select {
	case event := <-w.Events():
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	w := watcher.New(t.TempDir(), 10*time.Millisecond, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("second Start should fail")
	}
	w.Stop()

	if _, open := <-w.Events(); open {
		t.Fatal("events channel should be closed after Stop")
	}
	// Stop is idempotent.
	w.Stop()
}
