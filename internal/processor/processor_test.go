package processor_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trailscribe/internal/ledger"
	"trailscribe/internal/pipeline"
	"trailscribe/internal/processor"
	"trailscribe/internal/testsupport"
)

type fakeInvoker struct {
	requests []pipeline.Request
	fallback bool
}

func (f *fakeInvoker) Invoke(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.requests = append(f.requests, req)
	return &pipeline.Result{Fallback: f.fallback}, nil
}

type fixture struct {
	root    string
	out     string
	store   *ledger.Store
	invoker *fakeInvoker
	proc    *processor.Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	out := t.TempDir()
	store := testsupport.NewLedger(t)

	invoker := &fakeInvoker{}
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	proc := processor.New(root, out, store, invoker, nil).
		WithClock(func() time.Time { return clock })
	return &fixture{root: root, out: out, store: store, invoker: invoker, proc: proc}
}

func (f *fixture) writeTranscript(t *testing.T, location, videoFolder, name, payload string) string {
	t.Helper()
	dir := filepath.Join(f.root, location, videoFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestProcessLocationCombinesAndInvokes(t *testing.T) {
	f := newFixture(t)
	f.writeTranscript(t, "Discovery Park July 9", "Discovery Park July 9_1",
		"clip_suggestion.json", `[{"text":"Hello "},{"text":"world"}]`)
	f.writeTranscript(t, "Discovery Park July 9", "Discovery Park July 9_2",
		"clip_transcription.json", `[{"text":"Second clip"}]`)

	outcome, err := f.proc.ProcessLocation(context.Background(), "Discovery Park July 9")
	if err != nil {
		t.Fatalf("ProcessLocation: %v", err)
	}
	if !outcome.Processed {
		t.Fatalf("expected processing: %+v", outcome)
	}
	if outcome.FileCount != 2 {
		t.Errorf("file count: %d", outcome.FileCount)
	}
	if base := filepath.Base(outcome.ArtifactPath); base != "combined_Discovery_Park_July_9_20260801_120000.json" {
		t.Errorf("artifact name: %q", base)
	}

	data, err := os.ReadFile(outcome.ArtifactPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var doc struct {
		CombinedTranscript struct {
			Content struct {
				FullText string `json:"full_text"`
			} `json:"content"`
		} `json:"combined_transcript"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	want := "\n\n--- Discovery Park July 9_1 ---\nHello world\n\n--- Discovery Park July 9_2 ---\nSecond clip"
	if doc.CombinedTranscript.Content.FullText != want {
		t.Errorf("full_text:\ngot  %q\nwant %q", doc.CombinedTranscript.Content.FullText, want)
	}

	if len(f.invoker.requests) != 1 {
		t.Fatalf("pipeline invocations: %d", len(f.invoker.requests))
	}
	req := f.invoker.requests[0]
	if req.Location != "Discovery Park July 9" || req.ArtifactPath != outcome.ArtifactPath || req.Fingerprint == "" {
		t.Errorf("pipeline request: %+v", req)
	}

	combination, ok, err := f.store.Combination(context.Background(), "Discovery Park July 9")
	if err != nil || !ok {
		t.Fatalf("combination row: ok=%v err=%v", ok, err)
	}
	if combination.FileCount != 2 || combination.ArtifactPath != outcome.ArtifactPath {
		t.Errorf("combination: %+v", combination)
	}
}

func TestProcessLocationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.writeTranscript(t, "Trail", "trail_1", "a_transcription.json", `[{"text":"one"}]`)

	first, err := f.proc.ProcessLocation(context.Background(), "Trail")
	if err != nil || !first.Processed {
		t.Fatalf("first run: %+v err=%v", first, err)
	}

	second, err := f.proc.ProcessLocation(context.Background(), "Trail")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Processed {
		t.Fatalf("unchanged location reprocessed: %+v", second)
	}
	if len(f.invoker.requests) != 1 {
		t.Errorf("pipeline invoked %d times", len(f.invoker.requests))
	}

	// Touching the file set makes it stale again.
	f.writeTranscript(t, "Trail", "trail_2", "b_transcription.json", `[{"text":"two"}]`)
	third, err := f.proc.ProcessLocation(context.Background(), "Trail")
	if err != nil || !third.Processed {
		t.Fatalf("third run: %+v err=%v", third, err)
	}
}

func TestProcessLocationReprocessesWhenArtifactDeleted(t *testing.T) {
	f := newFixture(t)
	f.writeTranscript(t, "Trail", "trail_1", "a_transcription.json", `[{"text":"one"}]`)

	first, err := f.proc.ProcessLocation(context.Background(), "Trail")
	if err != nil || !first.Processed {
		t.Fatalf("first run: %+v err=%v", first, err)
	}
	if err := os.Remove(first.ArtifactPath); err != nil {
		t.Fatalf("remove artifact: %v", err)
	}

	second, err := f.proc.ProcessLocation(context.Background(), "Trail")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.Processed {
		t.Fatalf("deleted artifact not reprocessed: %+v", second)
	}
}

func TestProcessLocationWithoutFilesIsNoop(t *testing.T) {
	f := newFixture(t)
	outcome, err := f.proc.ProcessLocation(context.Background(), "Ghost Town")
	if err != nil {
		t.Fatalf("ProcessLocation: %v", err)
	}
	if outcome.Processed || outcome.FileCount != 0 {
		t.Fatalf("expected noop: %+v", outcome)
	}
}

func TestScanAllProcessesEveryStaleLocation(t *testing.T) {
	f := newFixture(t)
	f.writeTranscript(t, "Alpha", "alpha_1", "a_transcription.json", `[{"text":"a"}]`)
	f.writeTranscript(t, "Beta", "beta_1", "b_transcription.json", `[{"text":"b"}]`)

	outcomes, err := f.proc.ScanAll(context.Background())
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("outcomes: %d", len(outcomes))
	}
	if outcomes[0].Location != "Alpha" || outcomes[1].Location != "Beta" {
		t.Errorf("order: %+v", outcomes)
	}
	for _, outcome := range outcomes {
		if !outcome.Processed {
			t.Errorf("unprocessed: %+v", outcome)
		}
	}

	// A second sweep finds nothing stale.
	outcomes, err = f.proc.ScanAll(context.Background())
	if err != nil {
		t.Fatalf("second ScanAll: %v", err)
	}
	for _, outcome := range outcomes {
		if outcome.Processed {
			t.Errorf("reprocessed: %+v", outcome)
		}
	}
}

func TestScanAllMissingRootIsEmpty(t *testing.T) {
	f := newFixture(t)
	proc := processor.New(filepath.Join(f.root, "missing"), f.out, f.store, f.invoker, nil)
	outcomes, err := proc.ScanAll(context.Background())
	if err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected empty sweep: %+v", outcomes)
	}
}

func TestCheckReportsPendingWithoutWriting(t *testing.T) {
	f := newFixture(t)
	f.writeTranscript(t, "Alpha", "alpha_1", "a_transcription.json", `[{"text":"a"}]`)

	pending, err := f.proc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(pending) != 1 || pending[0].Location != "Alpha" || pending[0].FileCount != 1 {
		t.Fatalf("pending: %+v", pending)
	}
	if len(f.invoker.requests) != 0 {
		t.Error("check invoked pipeline")
	}
	entries, _ := os.ReadDir(f.out)
	if len(entries) != 0 {
		t.Errorf("check wrote artifacts: %v", entries)
	}

	// After processing, nothing is pending.
	if _, err := f.proc.ProcessLocation(context.Background(), "Alpha"); err != nil {
		t.Fatalf("ProcessLocation: %v", err)
	}
	pending, err = f.proc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("still pending: %+v", pending)
	}
}
