package catalog

import "time"

// OrganizationStatus tracks the lifecycle of an organize run.
type OrganizationStatus string

const (
	OrgStatusProcessing OrganizationStatus = "processing"
	OrgStatusCompleted  OrganizationStatus = "completed"
	OrgStatusFailed     OrganizationStatus = "failed"
	OrgStatusUndone     OrganizationStatus = "undone"
)

// FileRecord describes a tracked file. OriginalName and OriginalPath never
// change after upload; CurrentName and CurrentPath follow the file as it is
// organized and restored.
type FileRecord struct {
	ID             string
	OriginalName   string
	CurrentName    string
	OriginalPath   string
	CurrentPath    string
	FileType       string
	MimeType       string
	FileSize       int64
	Category       string
	Subcategory    string
	Tags           []string
	OrganizationID string
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Organized reports whether the record currently belongs to an organize run.
func (f *FileRecord) Organized() bool {
	return f.OrganizationID != ""
}

// Organization describes one organize run. BeforeSnapshot and AfterSnapshot
// hold encoded snapshots of the affected files; AfterSnapshot is written
// exactly once when the run completes.
type Organization struct {
	ID             string
	Name           string
	Description    string
	ExternalJobID  string
	Status         OrganizationStatus
	TotalFiles     int
	FilesProcessed int
	BeforeSnapshot string
	AfterSnapshot  string
	IsUndone       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LibraryStats aggregates catalog state for the stats endpoint and CLI.
type LibraryStats struct {
	TotalFiles       int
	OrganizedFiles   int
	UnorganizedFiles int
	TotalBytes       int64
	ByCategory       map[string]int
	Organizations    int
}
