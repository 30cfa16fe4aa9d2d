package transcripts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"trailscribe/internal/logging"
)

// DiscoverLocations walks the immediate subdirectories of root as locations
// and each location's immediate subdirectories as per-video folders, and
// returns the selected transcript files grouped by location, sorted per Sort.
//
// A missing root is a setup condition, not an error: it is logged and an
// empty map is returned. Locations with zero resolved files are omitted.
func DiscoverLocations(root string, logger *slog.Logger) (map[string][]File, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("watch root does not exist",
				logging.String("root", root),
				logging.String(logging.FieldEventType, "watch_root_missing"),
				logging.String(logging.FieldErrorHint, "check paths.watch_root or pass --root"),
			)
			return map[string][]File{}, nil
		}
		return nil, fmt.Errorf("read watch root %q: %w", root, err)
	}

	locations := make(map[string][]File)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		location := entry.Name()
		files, err := discoverLocation(filepath.Join(root, location), logger)
		if err != nil {
			logger.Warn("skipping unreadable location",
				logging.String(logging.FieldLocation, location),
				logging.Error(err),
			)
			continue
		}
		if len(files) == 0 {
			continue
		}
		Sort(files)
		locations[location] = files
	}
	return locations, nil
}

// DiscoverLocation returns the selected, sorted transcript files for a single
// location directory under root. A missing location yields an empty slice.
func DiscoverLocation(root, location string, logger *slog.Logger) ([]File, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	files, err := discoverLocation(filepath.Join(root, location), logger)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	Sort(files)
	return files, nil
}

func discoverLocation(locationDir string, logger *slog.Logger) ([]File, error) {
	videoDirs, err := os.ReadDir(locationDir)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, videoDir := range videoDirs {
		if !videoDir.IsDir() {
			continue
		}
		selected, err := selectVariantFiles(filepath.Join(locationDir, videoDir.Name()), videoDir.Name())
		if err != nil {
			logger.Warn("skipping unreadable video folder",
				logging.String("video_folder", videoDir.Name()),
				logging.Error(err),
			)
			continue
		}
		files = append(files, selected...)
	}
	return files, nil
}

// selectVariantFiles applies the three-tier fallback within one video folder.
// The first variant tier with any matches wins; tiers are never mixed.
func selectVariantFiles(videoDir, videoFolder string) ([]File, error) {
	entries, err := os.ReadDir(videoDir)
	if err != nil {
		return nil, err
	}

	for _, variant := range variantPreference {
		var selected []File
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), variant.suffix()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				// Raced with a concurrent delete; pretend it was never there.
				continue
			}
			selected = append(selected, File{
				Path:        filepath.Join(videoDir, entry.Name()),
				Name:        entry.Name(),
				VideoFolder: videoFolder,
				Variant:     variant,
				Size:        info.Size(),
				ModTime:     info.ModTime(),
			})
		}
		if len(selected) > 0 {
			return selected, nil
		}
	}
	return nil, nil
}
