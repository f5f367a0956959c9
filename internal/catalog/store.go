package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"thanos/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateFile inserts a new file record, assigning an identifier and
// timestamps when unset.
func (s *Store) CreateFile(ctx context.Context, record *FileRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	tags, err := marshalTags(record.Tags)
	if err != nil {
		return err
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO files (
            id, original_name, current_name, original_path, current_path,
            file_type, mime_type, file_size, category, subcategory, tags_json,
            organization_id, is_deleted, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.OriginalName,
		record.CurrentName,
		record.OriginalPath,
		record.CurrentPath,
		nullableString(record.FileType),
		nullableString(record.MimeType),
		record.FileSize,
		nullableString(record.Category),
		nullableString(record.Subcategory),
		nullableString(tags),
		nullableString(record.OrganizationID),
		boolToInt(record.IsDeleted),
		record.CreatedAt.Format(time.RFC3339Nano),
		record.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// GetFile fetches a non-deleted file record by identifier. Returns nil when
// the record does not exist.
func (s *Store) GetFile(ctx context.Context, id string) (*FileRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ? AND is_deleted = 0`, id)
	record, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return record, nil
}

// FileFilter narrows ListFiles results.
type FileFilter struct {
	// Organized filters on organize-run membership when non-nil.
	Organized *bool
}

// ListFiles returns non-deleted records ordered by creation time.
func (s *Store) ListFiles(ctx context.Context, filter FileFilter) ([]*FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE is_deleted = 0`
	if filter.Organized != nil {
		if *filter.Organized {
			query += ` AND organization_id IS NOT NULL`
		} else {
			query += ` AND organization_id IS NULL`
		}
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var records []*FileRecord
	for rows.Next() {
		record, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListUnorganized returns the files eligible for the next organize run in
// creation order.
func (s *Store) ListUnorganized(ctx context.Context) ([]*FileRecord, error) {
	organized := false
	return s.ListFiles(ctx, FileFilter{Organized: &organized})
}

// FilesByOrganization returns the files owned by an organize run.
func (s *Store) FilesByOrganization(ctx context.Context, organizationID string) ([]*FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+fileColumns+` FROM files WHERE organization_id = ? AND is_deleted = 0 ORDER BY created_at`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("files by organization: %w", err)
	}
	defer rows.Close()

	var records []*FileRecord
	for rows.Next() {
		record, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpdateFile persists changes to an existing file record.
func (s *Store) UpdateFile(ctx context.Context, record *FileRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.UpdatedAt = time.Now().UTC()

	tags, err := marshalTags(record.Tags)
	if err != nil {
		return err
	}

	_, err = s.execWithRetry(
		ctx,
		`UPDATE files
         SET original_name = ?, current_name = ?, original_path = ?, current_path = ?,
             file_type = ?, mime_type = ?, file_size = ?, category = ?, subcategory = ?,
             tags_json = ?, organization_id = ?, is_deleted = ?, updated_at = ?
         WHERE id = ?`,
		record.OriginalName,
		record.CurrentName,
		record.OriginalPath,
		record.CurrentPath,
		nullableString(record.FileType),
		nullableString(record.MimeType),
		record.FileSize,
		nullableString(record.Category),
		nullableString(record.Subcategory),
		nullableString(tags),
		nullableString(record.OrganizationID),
		boolToInt(record.IsDeleted),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	return nil
}

// SoftDeleteFile marks a record deleted. Returns false when no live record
// matched the identifier.
func (s *Store) SoftDeleteFile(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE files SET is_deleted = 1, updated_at = ? WHERE id = ? AND is_deleted = 0`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("soft delete file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete file: %w", err)
	}
	return affected > 0, nil
}

// CreateOrganization inserts a new organize run.
func (s *Store) CreateOrganization(ctx context.Context, org *Organization) error {
	if org == nil {
		return errors.New("organization is nil")
	}
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO organizations (
            id, name, description, external_job_id, status, total_files,
            files_processed, before_snapshot, after_snapshot, is_undone,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		nullableString(org.Description),
		nullableString(org.ExternalJobID),
		string(org.Status),
		org.TotalFiles,
		org.FilesProcessed,
		nullableString(org.BeforeSnapshot),
		nullableString(org.AfterSnapshot),
		boolToInt(org.IsUndone),
		org.CreatedAt.Format(time.RFC3339Nano),
		org.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetOrganization fetches an organize run by identifier. Returns nil when the
// run does not exist.
func (s *Store) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = ?`, id)
	org, err := scanOrganization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

// FindOrganizationByExternalJobID returns the run correlated with an external
// job identifier, or nil when none matches.
func (s *Store) FindOrganizationByExternalJobID(ctx context.Context, jobID string) (*Organization, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE external_job_id = ?`, jobID)
	org, err := scanOrganization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find organization by job id: %w", err)
	}
	return org, nil
}

// UpdateOrganization persists changes to an existing organize run.
func (s *Store) UpdateOrganization(ctx context.Context, org *Organization) error {
	if org == nil {
		return errors.New("organization is nil")
	}
	org.UpdatedAt = time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`UPDATE organizations
         SET name = ?, description = ?, external_job_id = ?, status = ?,
             total_files = ?, files_processed = ?, before_snapshot = ?,
             after_snapshot = ?, is_undone = ?, updated_at = ?
         WHERE id = ?`,
		org.Name,
		nullableString(org.Description),
		nullableString(org.ExternalJobID),
		string(org.Status),
		org.TotalFiles,
		org.FilesProcessed,
		nullableString(org.BeforeSnapshot),
		nullableString(org.AfterSnapshot),
		boolToInt(org.IsUndone),
		org.UpdatedAt.Format(time.RFC3339Nano),
		org.ID,
	)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

// ListOrganizations returns all organize runs, newest first.
func (s *Store) ListOrganizations(ctx context.Context) ([]*Organization, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// Stats aggregates catalog state for diagnostics and the stats endpoint.
func (s *Store) Stats(ctx context.Context) (LibraryStats, error) {
	stats := LibraryStats{ByCategory: make(map[string]int)}

	row := s.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(file_size), 0),
               COALESCE(SUM(CASE WHEN organization_id IS NOT NULL THEN 1 ELSE 0 END), 0)
        FROM files WHERE is_deleted = 0`)
	if err := row.Scan(&stats.TotalFiles, &stats.TotalBytes, &stats.OrganizedFiles); err != nil {
		return LibraryStats{}, fmt.Errorf("file stats: %w", err)
	}
	stats.UnorganizedFiles = stats.TotalFiles - stats.OrganizedFiles

	rows, err := s.db.QueryContext(ctx, `
        SELECT category, COUNT(1) FROM files
        WHERE is_deleted = 0 AND category IS NOT NULL
        GROUP BY category`)
	if err != nil {
		return LibraryStats{}, fmt.Errorf("category stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return LibraryStats{}, err
		}
		stats.ByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return LibraryStats{}, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM organizations`).Scan(&stats.Organizations); err != nil {
		return LibraryStats{}, fmt.Errorf("organization stats: %w", err)
	}
	return stats, nil
}
