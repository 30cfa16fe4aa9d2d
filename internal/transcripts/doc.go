// Package transcripts models the per-video transcript files produced by the
// upstream video processor and discovers them grouped by location.
//
// The watch tree is <root>/<Location>/<VideoFolder>/ with up to three
// transcript variants per video folder. Discovery applies a strict variant
// preference (AI-filtered, then locally filtered, then raw) and never mixes
// variants within one video folder. Ordering of a location's files is
// deterministic: by the numeric suffix of the video folder when present,
// with unnumbered folders last, ties broken by file name.
package transcripts
