package blogwriter

import (
	"fmt"
	"strings"
	"time"
)

// Draft is one generated trip-report blog post.
type Draft struct {
	Title                  string   `json:"title"`
	MetaDescription        string   `json:"meta_description"`
	Content                string   `json:"content"`
	Tags                   []string `json:"tags"`
	SuggestedImages        []string `json:"suggested_images"`
	WordCount              int      `json:"word_count"`
	PrimaryKeyword         string   `json:"primary_keyword"`
	QuoteAuthor            string   `json:"environmentalist_quote_author"`
	GeneratedDate          string   `json:"generated_date"`
	SourceTranscriptLength int      `json:"source_transcript_length"`
	Note                   string   `json:"note,omitempty"`
}

// IsFallback reports whether the draft was assembled locally instead of by
// the model.
func (d *Draft) IsFallback() bool {
	return d != nil && d.Note != ""
}

// FallbackDraft assembles a minimal draft from the raw transcript when the
// model is unreachable or returns garbage.
func FallbackDraft(transcriptText, location, date string, now time.Time) *Draft {
	title := "Trip Report: " + orDefault(location, "Adventure")
	if date != "" {
		title += " - " + date
	}

	excerpt := transcriptText
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}

	return &Draft{
		Title:                  title,
		MetaDescription:        "An adventure travel report with insights and experiences.",
		Content:                fmt.Sprintf("# Trip Report\n\n%s...", excerpt),
		Tags:                   []string{"travel", "adventure", "trip-report"},
		SuggestedImages:        []string{"landscape", "activity", "personal"},
		WordCount:              len(strings.Fields(transcriptText)),
		GeneratedDate:          now.Format(time.RFC3339),
		SourceTranscriptLength: len(transcriptText),
		Note:                   "Fallback content - LLM unavailable",
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
