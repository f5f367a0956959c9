package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const fileColumns = "id, original_name, current_name, original_path, current_path, file_type, mime_type, file_size, category, subcategory, tags_json, organization_id, is_deleted, created_at, updated_at"

const orgColumns = "id, name, description, external_job_id, status, total_files, files_processed, before_snapshot, after_snapshot, is_undone, created_at, updated_at"

func scanFile(scanner interface{ Scan(dest ...any) error }) (*FileRecord, error) {
	var (
		id             string
		originalName   string
		currentName    string
		originalPath   string
		currentPath    string
		fileType       sql.NullString
		mimeType       sql.NullString
		fileSize       int64
		category       sql.NullString
		subcategory    sql.NullString
		tagsJSON       sql.NullString
		organizationID sql.NullString
		isDeleted      sql.NullInt64
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&originalName,
		&currentName,
		&originalPath,
		&currentPath,
		&fileType,
		&mimeType,
		&fileSize,
		&category,
		&subcategory,
		&tagsJSON,
		&organizationID,
		&isDeleted,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &FileRecord{
		ID:             id,
		OriginalName:   originalName,
		CurrentName:    currentName,
		OriginalPath:   originalPath,
		CurrentPath:    currentPath,
		FileType:       fileType.String,
		MimeType:       mimeType.String,
		FileSize:       fileSize,
		Category:       category.String,
		Subcategory:    subcategory.String,
		OrganizationID: organizationID.String,
	}
	if isDeleted.Valid {
		record.IsDeleted = isDeleted.Int64 != 0
	}

	tags, err := unmarshalTags(tagsJSON.String)
	if err != nil {
		return nil, err
	}
	record.Tags = tags

	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func scanOrganization(scanner interface{ Scan(dest ...any) error }) (*Organization, error) {
	var (
		id             string
		name           string
		description    sql.NullString
		externalJobID  sql.NullString
		statusStr      string
		totalFiles     int
		filesProcessed int
		beforeSnapshot sql.NullString
		afterSnapshot  sql.NullString
		isUndone       sql.NullInt64
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&description,
		&externalJobID,
		&statusStr,
		&totalFiles,
		&filesProcessed,
		&beforeSnapshot,
		&afterSnapshot,
		&isUndone,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	org := &Organization{
		ID:             id,
		Name:           name,
		Description:    description.String,
		ExternalJobID:  externalJobID.String,
		Status:         OrganizationStatus(statusStr),
		TotalFiles:     totalFiles,
		FilesProcessed: filesProcessed,
		BeforeSnapshot: beforeSnapshot.String,
		AfterSnapshot:  afterSnapshot.String,
	}
	if isUndone.Valid {
		org.IsUndone = isUndone.Int64 != 0
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		org.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		org.UpdatedAt = updated
	}
	return org, nil
}

func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

func unmarshalTags(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(value), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}
