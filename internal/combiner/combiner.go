// Package combiner merges a location's transcript files into one combined
// document and writes it to the output directory.
package combiner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trailscribe/internal/fileutil"
	"trailscribe/internal/logging"
	"trailscribe/internal/textutil"
	"trailscribe/internal/transcripts"
)

// Document is the combined transcript artifact.
type Document struct {
	CombinedTranscript CombinedTranscript `json:"combined_transcript"`
}

type CombinedTranscript struct {
	Metadata Metadata `json:"metadata"`
	Content  Content  `json:"content"`
}

type Metadata struct {
	Location         string       `json:"location"`
	CreatedAt        string       `json:"created_at"`
	TotalSourceFiles int          `json:"total_source_files"`
	SourceFiles      []SourceFile `json:"source_files"`
}

type SourceFile struct {
	File        string `json:"file"`
	VideoFolder string `json:"video_folder"`
	Type        string `json:"type"`
}

type Content struct {
	FullText              string       `json:"full_text"`
	IndividualTranscripts []Transcript `json:"individual_transcripts"`
}

// Transcript is one source file's contribution to the combined document.
type Transcript struct {
	SourceFile     string `json:"source_file"`
	VideoFolder    string `json:"video_folder"`
	ProcessingType string `json:"processing_type"`
	TextContent    string `json:"text_content"`
	SegmentCount   int    `json:"segment_count"`
}

// Combine reads every transcript file and assembles the combined document.
// Files that cannot be read or parsed are logged and skipped; the document
// still carries them in individual_transcripts with empty text so the source
// inventory stays complete. now stamps created_at.
func Combine(location string, files []transcripts.File, now time.Time, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no transcript files for %q", location)
	}

	sorted := make([]transcripts.File, len(files))
	copy(sorted, files)
	transcripts.Sort(sorted)

	doc := &Document{
		CombinedTranscript: CombinedTranscript{
			Metadata: Metadata{
				Location:         location,
				CreatedAt:        now.Format(time.RFC3339),
				TotalSourceFiles: len(sorted),
				SourceFiles:      make([]SourceFile, 0, len(sorted)),
			},
			Content: Content{
				IndividualTranscripts: make([]Transcript, 0, len(sorted)),
			},
		},
	}

	fullText := ""
	for _, file := range sorted {
		doc.CombinedTranscript.Metadata.SourceFiles = append(doc.CombinedTranscript.Metadata.SourceFiles, SourceFile{
			File:        file.Name,
			VideoFolder: file.VideoFolder,
			Type:        string(file.Variant),
		})

		entry := Transcript{
			SourceFile:     file.Name,
			VideoFolder:    file.VideoFolder,
			ProcessingType: string(file.Variant),
		}

		data, err := os.ReadFile(file.Path)
		if err != nil {
			logger.Warn("skipping unreadable transcript",
				logging.String(logging.FieldLocation, location),
				logging.String("file", file.Name),
				logging.Error(err),
			)
			doc.CombinedTranscript.Content.IndividualTranscripts = append(doc.CombinedTranscript.Content.IndividualTranscripts, entry)
			continue
		}

		content, err := transcripts.ExtractContent(data)
		if err != nil {
			logger.Warn("skipping unparseable transcript",
				logging.String(logging.FieldLocation, location),
				logging.String("file", file.Name),
				logging.Error(err),
			)
			doc.CombinedTranscript.Content.IndividualTranscripts = append(doc.CombinedTranscript.Content.IndividualTranscripts, entry)
			continue
		}

		entry.TextContent = content.Text
		entry.SegmentCount = content.SegmentCount
		doc.CombinedTranscript.Content.IndividualTranscripts = append(doc.CombinedTranscript.Content.IndividualTranscripts, entry)

		if content.Text != "" {
			fullText += fmt.Sprintf("\n\n--- %s ---\n%s", file.VideoFolder, content.Text)
		}
	}
	doc.CombinedTranscript.Content.FullText = fullText

	return doc, nil
}

// Filename returns the combined document name for a location at a point in
// time: combined_<safe location>_<YYYYMMDD_HHMMSS>.json.
func Filename(location string, now time.Time) string {
	return fmt.Sprintf("combined_%s_%s.json", textutil.SafeLocationName(location), now.Format("20060102_150405"))
}

// FilenamePattern globs every combined document ever written for a location.
func FilenamePattern(location string) string {
	return fmt.Sprintf("combined_%s_*.json", textutil.SafeLocationName(location))
}

// Save writes the document atomically into outputDir and returns the full
// artifact path.
func Save(doc *Document, outputDir string, now time.Time) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode combined document: %w", err)
	}

	path := filepath.Join(outputDir, Filename(doc.CombinedTranscript.Metadata.Location, now))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write combined document: %w", err)
	}
	return path, nil
}
