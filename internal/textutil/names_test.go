package textutil_test

import (
	"testing"

	"trailscribe/internal/textutil"
)

func TestSafeLocationName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"spaces become underscores", "Discovery Park July 9", "Discovery_Park_July_9"},
		{"punctuation dropped", "Mt. Washington!", "Mt_Washington"},
		{"hyphen and underscore kept", "north-ridge_2", "north-ridge_2"},
		{"leading trailing space trimmed", "  Lake Serene  ", "Lake_Serene"},
		{"nothing survives", "///", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.SafeLocationName(tc.in); got != tc.want {
				t.Fatalf("SafeLocationName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSafeTitlePrefixTruncates(t *testing.T) {
	got := textutil.SafeTitlePrefix("A Very Long Trip Report Title About Mountains", 10)
	if got != "A Very Lon" {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if got := textutil.SafeTitlePrefix("Trip: Report!", 0); got != "Trip Report" {
		t.Fatalf("unexpected sanitized title: %q", got)
	}
	if got := textutil.SafeTitlePrefix("???", 0); got != "untitled" {
		t.Fatalf("unexpected empty-title fallback: %q", got)
	}
}

func TestDisplayLocationName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"discovery park july 9", "Discovery Park July 9"},
		{"mt_washington", "Mt Washington"},
		{"  lake   serene ", "Lake Serene"},
		{"", "Unknown Location"},
	}
	for _, tc := range cases {
		if got := textutil.DisplayLocationName(tc.in); got != tc.want {
			t.Fatalf("DisplayLocationName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
