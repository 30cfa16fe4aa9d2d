// Package pipeline drives the downstream content flow for one combined
// document: AI blog draft, Google Doc, tracking sheet row, local backup and
// Slack notification.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"trailscribe/internal/fileutil"
	"trailscribe/internal/ledger"
	"trailscribe/internal/logging"
	"trailscribe/internal/notifications"
	"trailscribe/internal/services/blogwriter"
	"trailscribe/internal/services/gdocs"
	"trailscribe/internal/textutil"
)

// DraftGenerator produces a blog draft from transcript text.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, transcriptText, location, date string) (*blogwriter.Draft, error)
}

// Publisher pushes drafts to Google Docs and the tracking sheet.
type Publisher interface {
	CreateBlogDoc(ctx context.Context, draft *blogwriter.Draft) (gdocs.DocInfo, error)
	EnsureTrackingSheet(ctx context.Context) (gdocs.SheetInfo, error)
	AppendTrackingRow(ctx context.Context, sheetID string, draft *blogwriter.Draft, doc gdocs.DocInfo) error
}

// Request is one combined document handed to the pipeline.
type Request struct {
	Location     string
	ArtifactPath string
	Fingerprint  string
	FullText     string
}

// Result reports what the pipeline produced.
type Result struct {
	Draft      *blogwriter.Draft
	Doc        gdocs.DocInfo
	Sheet      gdocs.SheetInfo
	BackupPath string
	Fallback   bool
}

// Invoker wires the downstream collaborators together.
type Invoker struct {
	generator DraftGenerator
	publisher Publisher
	notifier  notifications.Service
	store     *ledger.Store
	draftsDir string
	logger    *slog.Logger
	now       func() time.Time
}

// NewInvoker builds a pipeline invoker. notifier may be nil.
func NewInvoker(generator DraftGenerator, publisher Publisher, notifier notifications.Service, store *ledger.Store, draftsDir string, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	return &Invoker{
		generator: generator,
		publisher: publisher,
		notifier:  notifier,
		store:     store,
		draftsDir: draftsDir,
		logger:    logger.With(logging.String(logging.FieldComponent, "pipeline")),
		now:       time.Now,
	}
}

// WithClock overrides the timestamp source, for tests.
func (inv *Invoker) WithClock(now func() time.Time) *Invoker {
	if now != nil {
		inv.now = now
	}
	return inv
}

// Invoke runs the downstream pipeline for one combined document. Draft
// generation failure degrades to a local fallback draft with no external
// calls; publish failure is an error; everything after a successful publish
// is best-effort.
func (inv *Invoker) Invoke(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	logger := inv.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldLocation, req.Location),
	)

	date := inv.now().Format("January 2006")

	draft, err := inv.generator.GenerateDraft(ctx, req.FullText, req.Location, date)
	if err != nil {
		logger.Warn("draft generation failed, using fallback",
			logging.Error(err),
			logging.String(logging.FieldEventType, "draft_fallback"),
		)
		draft = blogwriter.FallbackDraft(req.FullText, req.Location, date, inv.now())
	}

	result := &Result{Draft: draft, Fallback: draft.IsFallback()}

	if result.Fallback {
		result.BackupPath = inv.saveBackup(logger, draft)
		inv.recordCompletion(ctx, logger, req, result, true)
		logger.Info("pipeline finished with fallback draft",
			logging.String("backup", result.BackupPath),
		)
		return result, nil
	}

	doc, err := inv.publisher.CreateBlogDoc(ctx, draft)
	if err != nil {
		inv.recordCompletion(ctx, logger, req, result, false)
		if notifyErr := inv.notifier.NotifyError(ctx, err, req.Location); notifyErr != nil {
			logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return nil, fmt.Errorf("publish draft for %q: %w", req.Location, err)
	}
	result.Doc = doc
	logger.Info("published google doc",
		logging.String("doc_url", doc.DocURL),
		logging.String("doc_title", doc.DocTitle),
	)

	result.Sheet = inv.updateTrackingSheet(ctx, logger, draft, doc)
	result.BackupPath = inv.saveBackup(logger, draft)

	if err := inv.notifier.NotifyDraftPublished(ctx, notifications.DraftSummary{
		Title:           draft.Title,
		WordCount:       draft.WordCount,
		PrimaryKeyword:  draft.PrimaryKeyword,
		QuoteAuthor:     draft.QuoteAuthor,
		MetaDescription: draft.MetaDescription,
		Tags:            draft.Tags,
		DocURL:          doc.DocURL,
		SheetURL:        result.Sheet.SheetURL,
	}); err != nil {
		logger.Warn("draft notification failed", logging.Error(err))
	}

	inv.recordCompletion(ctx, logger, req, result, true)
	return result, nil
}

// updateTrackingSheet reuses the shared sheet from the ledger, creating it on
// first use. Failures are logged and leave the result without a sheet.
func (inv *Invoker) updateTrackingSheet(ctx context.Context, logger *slog.Logger, draft *blogwriter.Draft, doc gdocs.DocInfo) gdocs.SheetInfo {
	sheet := gdocs.SheetInfo{}

	if inv.store != nil {
		cached, ok, err := inv.store.TrackingSheet(ctx)
		if err != nil {
			logger.Warn("tracking sheet lookup failed", logging.Error(err))
		} else if ok {
			sheet = gdocs.SheetInfo{SheetID: cached.SheetID, SheetURL: cached.SheetURL}
		}
	}

	if sheet.SheetID == "" {
		created, err := inv.publisher.EnsureTrackingSheet(ctx)
		if err != nil {
			logger.Warn("tracking sheet creation failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "tracking_sheet_failed"),
			)
			return gdocs.SheetInfo{}
		}
		sheet = created
		if inv.store != nil {
			if err := inv.store.SetTrackingSheet(ctx, ledger.TrackingSheet{
				SheetID:   sheet.SheetID,
				SheetURL:  sheet.SheetURL,
				UpdatedAt: inv.now(),
			}); err != nil {
				logger.Warn("tracking sheet persist failed", logging.Error(err))
			}
		}
	}

	if err := inv.publisher.AppendTrackingRow(ctx, sheet.SheetID, draft, doc); err != nil {
		logger.Warn("tracking row append failed", logging.Error(err))
	}
	return sheet
}

// saveBackup writes the draft JSON into the drafts directory. Failure is
// logged; the pipeline result is unaffected.
func (inv *Invoker) saveBackup(logger *slog.Logger, draft *blogwriter.Draft) string {
	if inv.draftsDir == "" {
		return ""
	}
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		logger.Warn("backup encode failed", logging.Error(err))
		return ""
	}

	name := fmt.Sprintf("%s_%s.json",
		textutil.SafeTitlePrefix(draft.Title, 30),
		inv.now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(inv.draftsDir, name)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		logger.Warn("backup write failed", logging.Error(err))
		return ""
	}
	return path
}

// recordCompletion logs the outcome in the ledger. A write failure only
// warns; the in-memory result stands.
func (inv *Invoker) recordCompletion(ctx context.Context, logger *slog.Logger, req Request, result *Result, success bool) {
	if inv.store == nil {
		return
	}
	err := inv.store.RecordCompletion(ctx, ledger.Completion{
		Artifact:    req.ArtifactPath,
		Location:    req.Location,
		Fingerprint: req.Fingerprint,
		ProcessedAt: inv.now(),
		Success:     success,
		DocURL:      result.Doc.DocURL,
		SheetURL:    result.Sheet.SheetURL,
	})
	if err != nil {
		logger.Warn("completion record failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_write_failed"),
		)
	}
}
