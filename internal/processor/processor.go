// Package processor is the per-location check-and-combine engine: it decides
// whether a location's transcript set is stale, combines it, and hands the
// result to the downstream pipeline.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"trailscribe/internal/combiner"
	"trailscribe/internal/fingerprint"
	"trailscribe/internal/ledger"
	"trailscribe/internal/logging"
	"trailscribe/internal/pipeline"
	"trailscribe/internal/transcripts"
)

// Invoker runs the downstream pipeline for a saved combined document.
type Invoker interface {
	Invoke(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Processor checks and combines locations.
type Processor struct {
	watchRoot string
	outputDir string
	store     *ledger.Store
	invoker   Invoker
	logger    *slog.Logger
	now       func() time.Time
}

// New builds a processor. invoker may be nil for combine-only use.
func New(watchRoot, outputDir string, store *ledger.Store, invoker Invoker, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		watchRoot: watchRoot,
		outputDir: outputDir,
		store:     store,
		invoker:   invoker,
		logger:    logger.With(logging.String(logging.FieldComponent, "processor")),
		now:       time.Now,
	}
}

// WithClock overrides the timestamp source, for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	if now != nil {
		p.now = now
	}
	return p
}

// Outcome reports what happened to one location.
type Outcome struct {
	Location     string
	Processed    bool
	Reason       string
	ArtifactPath string
	FileCount    int
	Fallback     bool
}

// ProcessLocation re-discovers one location, and when its transcript set is
// stale, combines it and invokes the pipeline. An up-to-date location is a
// no-op reported through the outcome.
func (p *Processor) ProcessLocation(ctx context.Context, location string) (Outcome, error) {
	outcome := Outcome{Location: location}

	files, err := transcripts.DiscoverLocation(p.watchRoot, location, p.logger)
	if err != nil {
		return outcome, fmt.Errorf("discover %q: %w", location, err)
	}
	outcome.FileCount = len(files)

	fp, ok := fingerprint.Compute(files)
	if !ok {
		outcome.Reason = "no transcript files"
		return outcome, nil
	}

	decision, err := p.store.NeedsProcessing(ctx, location, fp)
	if err != nil {
		return outcome, fmt.Errorf("staleness check for %q: %w", location, err)
	}
	outcome.Reason = decision.Reason
	if !decision.Process {
		p.logger.Debug("location up to date",
			logging.String(logging.FieldLocation, location),
			logging.String("reason", decision.Reason),
		)
		return outcome, nil
	}

	now := p.now()
	doc, err := combiner.Combine(location, files, now, p.logger)
	if err != nil {
		return outcome, fmt.Errorf("combine %q: %w", location, err)
	}
	artifact, err := combiner.Save(doc, p.outputDir, now)
	if err != nil {
		return outcome, fmt.Errorf("save combined document for %q: %w", location, err)
	}
	outcome.Processed = true
	outcome.ArtifactPath = artifact

	p.logger.Info("combined location",
		logging.String(logging.FieldLocation, location),
		logging.String("artifact", artifact),
		logging.Int("files", len(files)),
		logging.String("reason", decision.Reason),
	)

	if err := p.store.RecordCombination(ctx, ledger.Combination{
		Location:     location,
		Fingerprint:  fp,
		CombinedAt:   now,
		ArtifactPath: artifact,
		FileCount:    len(files),
	}); err != nil {
		p.logger.Warn("combination record failed",
			logging.String(logging.FieldLocation, location),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_write_failed"),
		)
	}

	if p.invoker == nil {
		return outcome, nil
	}

	result, err := p.invoker.Invoke(ctx, pipeline.Request{
		Location:     location,
		ArtifactPath: artifact,
		Fingerprint:  fp,
		FullText:     doc.CombinedTranscript.Content.FullText,
	})
	if err != nil {
		return outcome, fmt.Errorf("pipeline for %q: %w", location, err)
	}
	outcome.Fallback = result.Fallback
	return outcome, nil
}

// ScanAll walks every location under the watch root and processes the stale
// ones. Per-location failures are logged; the sweep continues.
func (p *Processor) ScanAll(ctx context.Context) ([]Outcome, error) {
	locations, err := transcripts.DiscoverLocations(p.watchRoot, p.logger)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(locations))
	for _, location := range sortedKeys(locations) {
		outcome, err := p.ProcessLocation(ctx, location)
		if err != nil {
			p.logger.Error("location processing failed",
				logging.String(logging.FieldLocation, location),
				logging.Error(err),
			)
			outcome.Reason = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// PendingLocation describes a location the next scan would process.
type PendingLocation struct {
	Location  string
	FileCount int
	Reason    string
}

// Check reports which locations are stale without combining anything.
func (p *Processor) Check(ctx context.Context) ([]PendingLocation, error) {
	locations, err := transcripts.DiscoverLocations(p.watchRoot, p.logger)
	if err != nil {
		return nil, err
	}

	var pending []PendingLocation
	for _, location := range sortedKeys(locations) {
		files := locations[location]
		fp, ok := fingerprint.Compute(files)
		if !ok {
			continue
		}
		decision, err := p.store.NeedsProcessing(ctx, location, fp)
		if err != nil {
			return nil, fmt.Errorf("staleness check for %q: %w", location, err)
		}
		if decision.Process {
			pending = append(pending, PendingLocation{
				Location:  location,
				FileCount: len(files),
				Reason:    decision.Reason,
			})
		}
	}
	return pending, nil
}

func sortedKeys(m map[string][]transcripts.File) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
