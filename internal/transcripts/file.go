package transcripts

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// File is one source transcript artifact. It captures the filesystem stat
// taken at discovery time; the file itself is never modified by trailscribe.
type File struct {
	Path        string
	Name        string
	VideoFolder string
	Variant     Variant
	Size        int64
	ModTime     time.Time
}

// unmatchedSequence sorts video folders without a numeric suffix after all
// numbered ones.
const unmatchedSequence = 1 << 30

var trailingNumber = regexp.MustCompile(`(\d+)$`)

// sequence extracts the video sequence number from a folder name such as
// "Discovery Park July 9_2" or "mt washington 3".
func sequence(videoFolder string) int {
	if idx := strings.LastIndex(videoFolder, "_"); idx >= 0 {
		if n, err := strconv.Atoi(videoFolder[idx+1:]); err == nil {
			return n
		}
	}
	if match := trailingNumber.FindString(videoFolder); match != "" {
		if n, err := strconv.Atoi(match); err == nil {
			return n
		}
	}
	return unmatchedSequence
}

// Sort orders files deterministically: by video sequence number, unnumbered
// folders last, then by file name.
func Sort(files []File) {
	sort.SliceStable(files, func(i, j int) bool {
		si, sj := sequence(files[i].VideoFolder), sequence(files[j].VideoFolder)
		if si != sj {
			return si < sj
		}
		return files[i].Name < files[j].Name
	})
}
