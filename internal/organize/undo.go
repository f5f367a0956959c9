package organize

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"thanos/internal/catalog"
	"thanos/internal/config"
	"thanos/internal/logging"
	"thanos/internal/mover"
	"thanos/internal/services"
)

// UndoResult reports what an undo actually accomplished.
type UndoResult struct {
	FilesReverted  int
	FoldersRemoved int
}

// Undoer reverts completed organize runs.
type Undoer struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
}

// NewUndoer constructs an Undoer.
func NewUndoer(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Undoer {
	return &Undoer{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "undo"),
	}
}

// Undo moves every file of the run back to its original location and clears
// classification state. Per-file failures are logged and skipped; the run is
// marked undone exactly once regardless.
func (u *Undoer) Undo(ctx context.Context, organizationID string) (UndoResult, error) {
	org, err := u.store.GetOrganization(ctx, organizationID)
	if err != nil {
		return UndoResult{}, services.Wrap(services.ErrTransient, "undo", "load organization", "failed to load organization", err)
	}
	if org == nil {
		return UndoResult{}, services.Wrap(services.ErrNotFound, "undo", "load organization", "organization not found", nil)
	}
	if org.IsUndone {
		return UndoResult{}, services.Wrap(services.ErrConflict, "undo", "check state", "organization already undone", nil)
	}

	files, err := u.store.FilesByOrganization(ctx, org.ID)
	if err != nil {
		return UndoResult{}, services.Wrap(services.ErrTransient, "undo", "load files", "failed to load organization files", err)
	}

	result := UndoResult{}
	emptied := make(map[string]struct{})

	for _, rec := range files {
		organizedPath := rec.CurrentPath
		if err := mover.RestoreFromOrganized(organizedPath, rec.OriginalPath); err != nil {
			u.logger.Warn("failed to restore file, skipping",
				logging.String(logging.FieldFileID, rec.ID),
				logging.String("path", organizedPath),
				logging.Error(err),
			)
			continue
		}

		rec.CurrentPath = rec.OriginalPath
		rec.CurrentName = rec.OriginalName
		rec.Category = ""
		rec.Subcategory = ""
		rec.Tags = nil
		rec.OrganizationID = ""
		if err := u.store.UpdateFile(ctx, rec); err != nil {
			u.logger.Warn("failed to update restored record",
				logging.String(logging.FieldFileID, rec.ID),
				logging.Error(err),
			)
			continue
		}

		result.FilesReverted++
		collectParentDirs(emptied, filepath.Dir(organizedPath), u.cfg.Paths.OrganizedDir)
	}

	result.FoldersRemoved = u.removeEmptyDirs(emptied)

	org.IsUndone = true
	org.Status = catalog.OrgStatusUndone
	if err := u.store.UpdateOrganization(ctx, org); err != nil {
		return result, services.Wrap(services.ErrTransient, "undo", "mark undone", "failed to mark organization undone", err)
	}

	u.logger.Info("organization undone",
		logging.String(logging.FieldOrganizationID, org.ID),
		logging.Int("files_reverted", result.FilesReverted),
		logging.Int("folders_removed", result.FoldersRemoved),
	)
	return result, nil
}

// collectParentDirs records dir and its parents up to (but not including) root.
func collectParentDirs(dst map[string]struct{}, dir, root string) {
	root = filepath.Clean(root)
	for {
		dir = filepath.Clean(dir)
		if dir == root || !strings.HasPrefix(dir, root+string(filepath.Separator)) {
			return
		}
		dst[dir] = struct{}{}
		dir = filepath.Dir(dir)
	}
}

// removeEmptyDirs removes now-empty category folders, deepest first. Only
// directories that are actually empty are removed.
func (u *Undoer) removeEmptyDirs(dirs map[string]struct{}) int {
	ordered := make([]string, 0, len(dirs))
	for dir := range dirs {
		ordered = append(ordered, dir)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return strings.Count(ordered[i], string(filepath.Separator)) > strings.Count(ordered[j], string(filepath.Separator))
	})

	removed := 0
	for _, dir := range ordered {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			u.logger.Debug("could not remove folder", logging.String("dir", dir), logging.Error(err))
			continue
		}
		removed++
	}
	return removed
}
