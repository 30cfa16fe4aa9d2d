package blogwriter

import (
	"fmt"
	"strings"
)

func buildTripReportPrompt(transcriptText, location, date string) string {
	var builder strings.Builder
	builder.WriteString(`You are an expert travel blogger who creates inspiring, SEO-optimized trip reports written in a personal journal style.

Transform this raw video transcript into a compelling first-person blog post:

TRANSCRIPT:
`)
	builder.WriteString(transcriptText)
	builder.WriteString(`

WRITING REQUIREMENTS:
- Write in first person as if reading from a personal journal
- Keep under 500 words total
- Create an engaging, SEO-friendly title with primary keyword
- Use a conversational, intimate tone like sharing with a close friend
- Include 2-3 relevant subheadings for readability
- Add [IMAGE: description] placeholders where photos would enhance the story
- End with an inspiring quote from a famous environmentalist that connects to the experience
- Make readers feel the wonder and value of nature

SEO REQUIREMENTS:
- Include location-based keywords naturally throughout
- Optimize for search terms like "hiking [location]", "[location] trail report", "outdoor adventure [location]"
- Create compelling meta description under 150 characters
- Suggest relevant tags for outdoor/nature content
`)
	if location != "" {
		builder.WriteString(fmt.Sprintf("\nLOCATION: %s", location))
	}
	if date != "" {
		builder.WriteString(fmt.Sprintf("\nDATE: %s", date))
	}
	builder.WriteString(`

Respond with a JSON object in this exact format:
{
  "title": "SEO-optimized blog post title with location keywords",
  "meta_description": "Under 150 character meta description with location keywords",
  "content": "Complete journal-style blog post under 500 words with [IMAGE: description] placeholders and inspirational quote",
  "tags": ["location-tag", "hiking", "nature", "outdoor-adventure", "trail-report"],
  "suggested_images": ["scenic description", "action description", "detail description"],
  "word_count": 450,
  "primary_keyword": "main SEO keyword phrase",
  "environmentalist_quote_author": "name of quoted environmentalist"
}

Respond with ONLY the JSON object.`)
	return builder.String()
}
