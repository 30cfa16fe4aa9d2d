package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"trailscribe/internal/combiner"
)

// RecordCombination upserts the latest combination for a location.
func (s *Store) RecordCombination(ctx context.Context, c Combination) error {
	return s.execWithRetry(ctx, `
		INSERT INTO locations (location, fingerprint, combined_at, artifact_path, file_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(location) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			combined_at = excluded.combined_at,
			artifact_path = excluded.artifact_path,
			file_count = excluded.file_count`,
		c.Location, c.Fingerprint, c.CombinedAt.UTC().Format(time.RFC3339), c.ArtifactPath, c.FileCount)
}

// Combination returns the latest combination for a location, or ok=false.
func (s *Store) Combination(ctx context.Context, location string) (Combination, bool, error) {
	ctx = ensureContext(ctx)
	var (
		c          Combination
		combinedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT location, fingerprint, combined_at, artifact_path, file_count
		FROM locations WHERE location = ?`, location).
		Scan(&c.Location, &c.Fingerprint, &combinedAt, &c.ArtifactPath, &c.FileCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Combination{}, false, nil
	}
	if err != nil {
		return Combination{}, false, fmt.Errorf("load combination for %q: %w", location, err)
	}
	c.CombinedAt, err = time.Parse(time.RFC3339, combinedAt)
	if err != nil {
		return Combination{}, false, fmt.Errorf("parse combined_at for %q: %w", location, err)
	}
	return c, true, nil
}

// Combinations returns every recorded combination, newest first.
func (s *Store) Combinations(ctx context.Context) ([]Combination, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT location, fingerprint, combined_at, artifact_path, file_count
		FROM locations ORDER BY combined_at DESC, location`)
	if err != nil {
		return nil, fmt.Errorf("list combinations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Combination
	for rows.Next() {
		var (
			c          Combination
			combinedAt string
		)
		if err := rows.Scan(&c.Location, &c.Fingerprint, &combinedAt, &c.ArtifactPath, &c.FileCount); err != nil {
			return nil, fmt.Errorf("scan combination: %w", err)
		}
		if c.CombinedAt, err = time.Parse(time.RFC3339, combinedAt); err != nil {
			return nil, fmt.Errorf("parse combined_at: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// RecordCompletion upserts one artifact's pipeline outcome.
func (s *Store) RecordCompletion(ctx context.Context, c Completion) error {
	success := 0
	if c.Success {
		success = 1
	}
	return s.execWithRetry(ctx, `
		INSERT INTO completions (artifact, location, fingerprint, processed_at, success, doc_url, sheet_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(artifact) DO UPDATE SET
			location = excluded.location,
			fingerprint = excluded.fingerprint,
			processed_at = excluded.processed_at,
			success = excluded.success,
			doc_url = excluded.doc_url,
			sheet_url = excluded.sheet_url`,
		c.Artifact, c.Location, c.Fingerprint, c.ProcessedAt.UTC().Format(time.RFC3339), success, c.DocURL, c.SheetURL)
}

// Completions returns the completion log for a location, newest first.
func (s *Store) Completions(ctx context.Context, location string) ([]Completion, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT artifact, location, fingerprint, processed_at, success, doc_url, sheet_url
		FROM completions WHERE location = ? ORDER BY processed_at DESC, artifact`, location)
	if err != nil {
		return nil, fmt.Errorf("list completions for %q: %w", location, err)
	}
	defer func() { _ = rows.Close() }()
	return scanCompletions(rows)
}

// AllCompletions returns the entire completion log, newest first.
func (s *Store) AllCompletions(ctx context.Context) ([]Completion, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT artifact, location, fingerprint, processed_at, success, doc_url, sheet_url
		FROM completions ORDER BY processed_at DESC, artifact`)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanCompletions(rows)
}

func scanCompletions(rows *sql.Rows) ([]Completion, error) {
	var result []Completion
	for rows.Next() {
		var (
			c           Completion
			processedAt string
			success     int
		)
		if err := rows.Scan(&c.Artifact, &c.Location, &c.Fingerprint, &processedAt, &success, &c.DocURL, &c.SheetURL); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		var err error
		if c.ProcessedAt, err = time.Parse(time.RFC3339, processedAt); err != nil {
			return nil, fmt.Errorf("parse processed_at: %w", err)
		}
		c.Success = success != 0
		result = append(result, c)
	}
	return result, rows.Err()
}

// TrackingSheet returns the cached tracking spreadsheet, or ok=false.
func (s *Store) TrackingSheet(ctx context.Context) (TrackingSheet, bool, error) {
	ctx = ensureContext(ctx)
	var (
		t         TrackingSheet
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT sheet_id, sheet_url, updated_at FROM tracking WHERE id = 1").
		Scan(&t.SheetID, &t.SheetURL, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return TrackingSheet{}, false, nil
	}
	if err != nil {
		return TrackingSheet{}, false, fmt.Errorf("load tracking sheet: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return TrackingSheet{}, false, fmt.Errorf("parse tracking updated_at: %w", err)
	}
	return t, true, nil
}

// SetTrackingSheet stores the tracking spreadsheet singleton.
func (s *Store) SetTrackingSheet(ctx context.Context, t TrackingSheet) error {
	return s.execWithRetry(ctx, `
		INSERT INTO tracking (id, sheet_id, sheet_url, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sheet_id = excluded.sheet_id,
			sheet_url = excluded.sheet_url,
			updated_at = excluded.updated_at`,
		t.SheetID, t.SheetURL, t.UpdatedAt.UTC().Format(time.RFC3339))
}

// Decision explains a staleness check.
type Decision struct {
	Process bool
	Reason  string
}

// NeedsProcessing decides whether a location's current transcript set should
// be combined again. The answer is yes unless the fingerprint matches the
// recorded combination and the combined artifact still exists on disk.
//
// The locations table is a cache over the completion log: when the row is
// missing but a successful completion for the same fingerprint exists and its
// artifact survives, the row is backfilled and processing is skipped.
func (s *Store) NeedsProcessing(ctx context.Context, location, fp string) (Decision, error) {
	ctx = ensureContext(ctx)

	current, ok, err := s.Combination(ctx, location)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		backfilled, err := s.backfillFromCompletions(ctx, location, fp)
		if err != nil {
			return Decision{}, err
		}
		if backfilled {
			return Decision{Process: false, Reason: "recovered from completion log"}, nil
		}
		return Decision{Process: true, Reason: "no prior combination"}, nil
	}

	if current.Fingerprint != fp {
		return Decision{Process: true, Reason: "transcripts changed"}, nil
	}

	if artifact, found := locateArtifact(current.ArtifactPath, location); found {
		if artifact != current.ArtifactPath {
			current.ArtifactPath = artifact
			if err := s.RecordCombination(ctx, current); err != nil {
				return Decision{}, err
			}
		}
		return Decision{Process: false, Reason: "up to date"}, nil
	}
	return Decision{Process: true, Reason: "combined artifact missing on disk"}, nil
}

func (s *Store) backfillFromCompletions(ctx context.Context, location, fp string) (bool, error) {
	completions, err := s.Completions(ctx, location)
	if err != nil {
		return false, err
	}
	for _, c := range completions {
		if !c.Success || c.Fingerprint != fp {
			continue
		}
		if _, err := os.Stat(c.Artifact); err != nil {
			continue
		}
		return true, s.RecordCombination(ctx, Combination{
			Location:     location,
			Fingerprint:  fp,
			CombinedAt:   c.ProcessedAt,
			ArtifactPath: c.Artifact,
		})
	}
	return false, nil
}

// locateArtifact checks that the recorded artifact still exists; if it was
// renamed or replaced, any combined document for the location in the same
// directory counts, preferring the newest by name.
func locateArtifact(recorded, location string) (string, bool) {
	if recorded == "" {
		return "", false
	}
	if _, err := os.Stat(recorded); err == nil {
		return recorded, true
	}
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(recorded), combiner.FilenamePattern(location)))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[len(matches)-1], true
}
