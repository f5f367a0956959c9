package server

import (
	"time"

	"thanos/internal/catalog"
)

// fileView is the wire shape for file records.
type fileView struct {
	ID             string    `json:"id"`
	OriginalName   string    `json:"originalName"`
	CurrentName    string    `json:"currentName"`
	OriginalPath   string    `json:"originalPath"`
	CurrentPath    string    `json:"currentPath"`
	FileType       string    `json:"fileType,omitempty"`
	MimeType       string    `json:"mimeType,omitempty"`
	FileSize       int64     `json:"fileSize"`
	Category       string    `json:"category,omitempty"`
	Subcategory    string    `json:"subcategory,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	OrganizationID string    `json:"organizationId,omitempty"`
	Organized      bool      `json:"organized"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newFileView(rec *catalog.FileRecord) fileView {
	return fileView{
		ID:             rec.ID,
		OriginalName:   rec.OriginalName,
		CurrentName:    rec.CurrentName,
		OriginalPath:   rec.OriginalPath,
		CurrentPath:    rec.CurrentPath,
		FileType:       rec.FileType,
		MimeType:       rec.MimeType,
		FileSize:       rec.FileSize,
		Category:       rec.Category,
		Subcategory:    rec.Subcategory,
		Tags:           rec.Tags,
		OrganizationID: rec.OrganizationID,
		Organized:      rec.Organized(),
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func newFileViews(records []*catalog.FileRecord) []fileView {
	views := make([]fileView, 0, len(records))
	for _, rec := range records {
		views = append(views, newFileView(rec))
	}
	return views
}

// organizationView is the wire shape for organize runs. Snapshots are decoded
// into descriptor arrays; a missing snapshot serializes as null.
type organizationView struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description,omitempty"`
	ExternalJobID  string                   `json:"externalJobId,omitempty"`
	Status         string                   `json:"status"`
	TotalFiles     int                      `json:"totalFiles"`
	FilesProcessed int                      `json:"filesProcessed"`
	BeforeSnapshot []catalog.FileDescriptor `json:"beforeSnapshot"`
	AfterSnapshot  []catalog.FileDescriptor `json:"afterSnapshot"`
	IsUndone       bool                     `json:"isUndone"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

func newOrganizationView(org *catalog.Organization) (organizationView, error) {
	view := organizationView{
		ID:             org.ID,
		Name:           org.Name,
		Description:    org.Description,
		ExternalJobID:  org.ExternalJobID,
		Status:         string(org.Status),
		TotalFiles:     org.TotalFiles,
		FilesProcessed: org.FilesProcessed,
		IsUndone:       org.IsUndone,
		CreatedAt:      org.CreatedAt,
		UpdatedAt:      org.UpdatedAt,
	}
	before, err := catalog.DecodeSnapshot(org.BeforeSnapshot)
	if err != nil {
		return organizationView{}, err
	}
	if before != nil {
		view.BeforeSnapshot = before.Files
	}
	after, err := catalog.DecodeSnapshot(org.AfterSnapshot)
	if err != nil {
		return organizationView{}, err
	}
	if after != nil {
		view.AfterSnapshot = after.Files
	}
	return view, nil
}

// statsView is the wire shape for library statistics.
type statsView struct {
	TotalFiles       int            `json:"totalFiles"`
	OrganizedFiles   int            `json:"organizedFiles"`
	UnorganizedFiles int            `json:"unorganizedFiles"`
	TotalBytes       int64          `json:"totalBytes"`
	ByCategory       map[string]int `json:"byCategory"`
	Organizations    int            `json:"organizations"`
}

type undoRequest struct {
	OrganizationID string `json:"organizationId"`
}

type undoResponse struct {
	Success        bool   `json:"success"`
	FilesReverted  int    `json:"filesReverted"`
	FoldersRemoved int    `json:"foldersRemoved"`
	Message        string `json:"message"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
