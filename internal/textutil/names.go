package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// SafeLocationName converts a location name into a filesystem-safe token for
// artifact filenames. Characters outside letters, digits, spaces, hyphens,
// and underscores are dropped; the result is trimmed and spaces become
// underscores. Returns "unknown" when nothing survives.
func SafeLocationName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return "unknown"
	}
	return strings.ReplaceAll(safe, " ", "_")
}

// SafeTitlePrefix sanitizes a draft title for backup filenames: at most
// maxLen leading characters, with anything outside letters, digits, spaces,
// hyphens, and underscores dropped. Unlike SafeLocationName, spaces are kept.
func SafeTitlePrefix(title string, maxLen int) string {
	runes := []rune(title)
	if maxLen > 0 && len(runes) > maxLen {
		runes = runes[:maxLen]
	}
	var b strings.Builder
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimRight(b.String(), " ")
	if safe == "" {
		return "untitled"
	}
	return safe
}

// DisplayLocationName normalizes a directory-derived location name for
// human-facing output. Underscores and repeated whitespace collapse to single
// spaces and the result is title-cased. Generic title casing is the only
// rule: known-quirky location spellings are data problems, not code ones.
func DisplayLocationName(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "Unknown Location"
	}
	return titleCaser.String(cleaned)
}
