package combiner_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trailscribe/internal/combiner"
	"trailscribe/internal/transcripts"
)

func writeSource(t *testing.T, dir, name, payload string) transcripts.File {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return transcripts.File{
		Path:    path,
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

func TestCombineEndToEnd(t *testing.T) {
	dir := t.TempDir()

	first := writeSource(t, dir, "clip1_suggestion.json", `[{"text":"Hello "},{"text":"world"}]`)
	first.VideoFolder = "Discovery Park July 9_1"
	first.Variant = transcripts.VariantAIFiltered

	second := writeSource(t, dir, "clip2_transcription.json", `[{"text":"Second clip"}]`)
	second.VideoFolder = "Discovery Park July 9_2"
	second.Variant = transcripts.VariantRaw

	now := time.Date(2026, 7, 9, 14, 30, 5, 0, time.UTC)
	// Pass files out of order; Combine sorts by video sequence.
	doc, err := combiner.Combine("Discovery Park July 9", []transcripts.File{second, first}, now, nil)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	wantText := "\n\n--- Discovery Park July 9_1 ---\nHello world\n\n--- Discovery Park July 9_2 ---\nSecond clip"
	if got := doc.CombinedTranscript.Content.FullText; got != wantText {
		t.Errorf("full_text:\ngot  %q\nwant %q", got, wantText)
	}

	meta := doc.CombinedTranscript.Metadata
	if meta.Location != "Discovery Park July 9" {
		t.Errorf("location: got %q", meta.Location)
	}
	if meta.TotalSourceFiles != 2 {
		t.Errorf("total_source_files: got %d", meta.TotalSourceFiles)
	}
	if meta.CreatedAt != "2026-07-09T14:30:05Z" {
		t.Errorf("created_at: got %q", meta.CreatedAt)
	}
	if len(meta.SourceFiles) != 2 || meta.SourceFiles[0].Type != "ai_filtered" || meta.SourceFiles[1].Type != "raw" {
		t.Errorf("source_files: got %+v", meta.SourceFiles)
	}
	if meta.SourceFiles[0].VideoFolder != "Discovery Park July 9_1" || meta.SourceFiles[1].VideoFolder != "Discovery Park July 9_2" {
		t.Errorf("source_files video folders: got %+v", meta.SourceFiles)
	}

	individual := doc.CombinedTranscript.Content.IndividualTranscripts
	if len(individual) != 2 {
		t.Fatalf("individual_transcripts: got %d entries", len(individual))
	}
	if individual[0].TextContent != "Hello world" || individual[0].SegmentCount != 2 {
		t.Errorf("first transcript: %+v", individual[0])
	}

	outDir := t.TempDir()
	path, err := combiner.Save(doc, outDir, now)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(outDir, "combined_Discovery_Park_July_9_20260709_143005.json"); path != want {
		t.Errorf("artifact path: got %q want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if _, ok := decoded["combined_transcript"]; !ok {
		t.Error("artifact missing combined_transcript root key")
	}

	var shape struct {
		CombinedTranscript struct {
			Metadata struct {
				SourceFiles []map[string]string `json:"source_files"`
			} `json:"metadata"`
		} `json:"combined_transcript"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		t.Fatalf("decode artifact metadata: %v", err)
	}
	for i, entry := range shape.CombinedTranscript.Metadata.SourceFiles {
		for _, key := range []string{"file", "video_folder", "type"} {
			if _, ok := entry[key]; !ok {
				t.Errorf("source_files[%d] missing %q key: %v", i, key, entry)
			}
		}
	}
}

func TestCombineSkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()

	good := writeSource(t, dir, "ok_transcription.json", `[{"text":"usable"}]`)
	good.VideoFolder = "trail_1"
	good.Variant = transcripts.VariantRaw

	bad := writeSource(t, dir, "broken_transcription.json", `"just a string"`)
	bad.VideoFolder = "trail_2"
	bad.Variant = transcripts.VariantRaw

	missing := transcripts.File{
		Path:        filepath.Join(dir, "gone_transcription.json"),
		Name:        "gone_transcription.json",
		VideoFolder: "trail_3",
		Variant:     transcripts.VariantRaw,
	}

	doc, err := combiner.Combine("Trail", []transcripts.File{good, bad, missing}, time.Now(), nil)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}

	if got := doc.CombinedTranscript.Content.FullText; !strings.Contains(got, "usable") {
		t.Errorf("full_text missing usable content: %q", got)
	}
	if got := doc.CombinedTranscript.Content.FullText; strings.Contains(got, "trail_2") || strings.Contains(got, "trail_3") {
		t.Errorf("full_text carries skipped folders: %q", got)
	}
	// Inventory still lists every source file.
	if got := doc.CombinedTranscript.Metadata.TotalSourceFiles; got != 3 {
		t.Errorf("total_source_files: got %d want 3", got)
	}
	if got := len(doc.CombinedTranscript.Content.IndividualTranscripts); got != 3 {
		t.Errorf("individual_transcripts: got %d entries want 3", got)
	}
}

func TestCombineEmptySetFails(t *testing.T) {
	if _, err := combiner.Combine("Nowhere", nil, time.Now(), nil); err == nil {
		t.Fatal("expected error for empty file set")
	}
}

func TestFilenamePattern(t *testing.T) {
	if got, want := combiner.FilenamePattern("Mt. Rainier"), "combined_Mt_Rainier_*.json"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
