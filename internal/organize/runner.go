package organize

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"thanos/internal/catalog"
	"thanos/internal/config"
	"thanos/internal/logging"
	"thanos/internal/mover"
	"thanos/internal/naming"
	"thanos/internal/services"
	"thanos/internal/services/classifier"
)

// Policy controls how the runner reacts to per-file failures.
type Policy string

const (
	// PolicySkip logs the failure and continues with the next file.
	PolicySkip Policy = "skip"
	// PolicyAbort stops the job at the first per-file failure.
	PolicyAbort Policy = "abort"
)

// RunOptions carries optional metadata for one organize run.
type RunOptions struct {
	// ExternalJobID correlates the run with an external orchestrator job.
	ExternalJobID string
	Description   string
}

// Runner executes organize jobs. One file is in flight at a time; concurrent
// runs are rejected with a conflict error.
type Runner struct {
	cfg        *config.Config
	store      *catalog.Store
	classifier classifier.Service
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewRunner constructs a Runner.
func NewRunner(cfg *config.Config, store *catalog.Store, svc classifier.Service, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		store:      store,
		classifier: svc,
		logger:     logging.NewComponentLogger(logger, "organizer"),
	}
}

// Run organizes every unorganized file, emitting progress events along the
// way. Exactly one terminal event is emitted: completed with a summary, or
// error. The returned summary is nil when the run fails.
func (r *Runner) Run(ctx context.Context, opts RunOptions, emit func(Event)) (*Summary, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	if !r.mu.TryLock() {
		err := services.Wrap(services.ErrConflict, "organizing", "start job", "an organize job is already running", nil)
		emit(Event{Status: EventError, Message: err.Error()})
		return nil, err
	}
	defer r.mu.Unlock()

	release, err := acquireJobLock(r.cfg.LockPath())
	if err != nil {
		emit(Event{Status: EventError, Message: err.Error()})
		return nil, err
	}
	defer release()

	summary, err := r.run(ctx, opts, emit)
	if err != nil {
		emit(Event{Status: EventError, Message: err.Error()})
		return nil, err
	}
	emit(Event{Status: EventCompleted, Progress: 100, Message: "Organization complete", Result: summary})
	return summary, nil
}

func (r *Runner) run(ctx context.Context, opts RunOptions, emit func(Event)) (*Summary, error) {
	files, err := r.store.ListUnorganized(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "organizing", "list files", "failed to load unorganized files", err)
	}
	if max := r.cfg.Organize.MaxBatch; max > 0 && len(files) > max {
		files = files[:max]
	}

	if len(files) == 0 {
		r.logger.Info("nothing to organize")
		return &Summary{TotalFiles: 0, FilesProcessed: 0}, nil
	}

	before := make([]catalog.FileDescriptor, 0, len(files))
	for _, rec := range files {
		before = append(before, descriptorFor(rec))
	}
	beforeSnapshot, err := catalog.EncodeSnapshot(before)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "organizing", "snapshot", "failed to encode before snapshot", err)
	}

	org := &catalog.Organization{
		Name:           "Organization " + time.Now().UTC().Format("2006-01-02 15:04"),
		Description:    opts.Description,
		ExternalJobID:  opts.ExternalJobID,
		Status:         catalog.OrgStatusProcessing,
		TotalFiles:     len(files),
		BeforeSnapshot: beforeSnapshot,
	}
	if err := r.store.CreateOrganization(ctx, org); err != nil {
		return nil, services.Wrap(services.ErrTransient, "organizing", "create organization", "failed to create organization", err)
	}

	policy := Policy(r.cfg.Organize.OnFileError)
	total := len(files)
	processed := 0
	var failures []FileFailure
	after := make([]catalog.FileDescriptor, 0, total)

	for i, rec := range files {
		if err := ctx.Err(); err != nil {
			r.failOrganization(org, processed)
			return nil, services.Wrap(services.ErrTransient, "organizing", "run job", "organize job cancelled", err)
		}

		progress := (processed*80)/total + 10
		emit(Event{
			Status:   EventProcessing,
			Progress: progress,
			Message:  fmt.Sprintf("Organizing %s (%d/%d)", rec.CurrentName, i+1, total),
		})

		if err := r.organizeFile(ctx, rec, org.ID); err != nil {
			r.logger.Warn("file skipped",
				logging.String(logging.FieldFileID, rec.ID),
				logging.String("name", rec.CurrentName),
				logging.Error(err),
			)
			failures = append(failures, FileFailure{FileID: rec.ID, Reason: err.Error()})
			if policy == PolicyAbort {
				r.failOrganization(org, processed)
				return nil, services.Wrap(services.ErrTransient, "organizing", "organize file",
					fmt.Sprintf("aborted after failing to organize %q", rec.CurrentName), err)
			}
			continue
		}

		processed++
		after = append(after, descriptorFor(rec))
		org.FilesProcessed = processed
		if err := r.store.UpdateOrganization(ctx, org); err != nil {
			r.logger.Warn("failed to persist organize progress", logging.Error(err))
		}
	}

	afterSnapshot, err := catalog.EncodeSnapshot(after)
	if err != nil {
		r.failOrganization(org, processed)
		return nil, services.Wrap(services.ErrTransient, "organizing", "snapshot", "failed to encode after snapshot", err)
	}
	org.Status = catalog.OrgStatusCompleted
	org.FilesProcessed = processed
	org.AfterSnapshot = afterSnapshot
	if err := r.store.UpdateOrganization(ctx, org); err != nil {
		return nil, services.Wrap(services.ErrTransient, "organizing", "complete organization", "failed to finalize organization", err)
	}

	r.logger.Info("organize job finished",
		logging.String(logging.FieldOrganizationID, org.ID),
		logging.Int("total", total),
		logging.Int("processed", processed),
		logging.Int("failed", len(failures)),
	)

	return &Summary{
		OrganizationID: org.ID,
		Name:           org.Name,
		Description:    org.Description,
		Status:         string(org.Status),
		TotalFiles:     total,
		FilesProcessed: processed,
		BeforeSnapshot: before,
		AfterSnapshot:  after,
		IsUndone:       org.IsUndone,
		CreatedAt:      org.CreatedAt,
		Failures:       failures,
	}, nil
}

// organizeFile classifies and moves one file, then persists the updated
// record. A failed record update reverts the move so the catalog and the
// filesystem stay consistent.
func (r *Runner) organizeFile(ctx context.Context, rec *catalog.FileRecord, organizationID string) error {
	result := r.classifier.Classify(ctx, classifier.FileInfo{
		Name:     rec.CurrentName,
		FileType: rec.FileType,
		MimeType: rec.MimeType,
		Size:     rec.FileSize,
	})

	name := naming.SafeName(result.SuggestedName)
	if ext := fileExt(rec.CurrentName); ext != "" && !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	dest := naming.DestPath(r.cfg.Paths.OrganizedDir, result.Category, result.Subcategory, name)
	dest, err := naming.EnsureUnique(dest)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	previousPath := rec.CurrentPath
	final, err := mover.MoveToOrganized(rec.CurrentPath, dest)
	if err != nil {
		return fmt.Errorf("move file: %w", err)
	}

	rec.CurrentPath = final
	rec.CurrentName = filepath.Base(final)
	rec.Category = result.Category
	rec.Subcategory = result.Subcategory
	rec.Tags = result.Tags
	rec.OrganizationID = organizationID
	if err := r.store.UpdateFile(ctx, rec); err != nil {
		if revertErr := mover.RestoreFromOrganized(final, previousPath); revertErr != nil {
			r.logger.Error("failed to revert move after record update failure",
				logging.String(logging.FieldFileID, rec.ID),
				logging.Error(revertErr),
			)
		}
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// failOrganization marks the run failed best-effort. Terminal error reporting
// happens through the event stream, so persistence failures here only log.
func (r *Runner) failOrganization(org *catalog.Organization, processed int) {
	org.Status = catalog.OrgStatusFailed
	org.FilesProcessed = processed
	if err := r.store.UpdateOrganization(context.Background(), org); err != nil {
		r.logger.Error("failed to mark organization failed",
			logging.String(logging.FieldOrganizationID, org.ID),
			logging.Error(err),
		)
	}
}

func descriptorFor(rec *catalog.FileRecord) catalog.FileDescriptor {
	return catalog.FileDescriptor{
		Name:     rec.CurrentName,
		Path:     rec.CurrentPath,
		Size:     rec.FileSize,
		Type:     rec.FileType,
		Category: rec.Category,
	}
}

func fileExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return strings.ToLower(name[idx:])
	}
	return ""
}
