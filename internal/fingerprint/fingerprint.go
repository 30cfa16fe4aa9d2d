// Package fingerprint derives a stable digest for a location's transcript
// set, used to decide whether a combined document is stale.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"trailscribe/internal/transcripts"
)

// Compute returns a hex digest over the location's transcript files. The
// digest covers each file's name, modification time and size, so edits,
// additions and removals all change it. Ordering of the input does not.
//
// An empty file set has no fingerprint; ok is false.
func Compute(files []transcripts.File) (digest string, ok bool) {
	if len(files) == 0 {
		return "", false
	}

	entries := make([]string, 0, len(files))
	for _, f := range files {
		entries = append(entries, fmt.Sprintf("%s:%d:%d;", f.Name, f.ModTime.UnixNano(), f.Size))
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, entry := range entries {
		h.Write([]byte(entry))
	}
	return hex.EncodeToString(h.Sum(nil)), true
}
