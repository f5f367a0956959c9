package organize

import (
	"time"

	"thanos/internal/catalog"
)

// EventStatus identifies the kind of a job event.
type EventStatus string

const (
	EventProcessing EventStatus = "processing"
	EventCompleted  EventStatus = "completed"
	EventError      EventStatus = "error"
)

// Event is one entry in a job's progress stream. Exactly one terminal event
// is emitted per run: completed or error.
type Event struct {
	Status   EventStatus `json:"status"`
	Progress int         `json:"progress"`
	Message  string      `json:"message,omitempty"`
	Result   *Summary    `json:"result,omitempty"`
}

// FileFailure records a per-file error that the job skipped past.
type FileFailure struct {
	FileID string `json:"fileId"`
	Reason string `json:"reason"`
}

// Summary is the organization view carried by the terminal completed event.
// An empty run produces a summary with zero counts and no identity.
type Summary struct {
	OrganizationID string                   `json:"id,omitempty"`
	Name           string                   `json:"name,omitempty"`
	Description    string                   `json:"description,omitempty"`
	Status         string                   `json:"status,omitempty"`
	TotalFiles     int                      `json:"totalFiles"`
	FilesProcessed int                      `json:"filesProcessed"`
	BeforeSnapshot []catalog.FileDescriptor `json:"beforeSnapshot,omitempty"`
	AfterSnapshot  []catalog.FileDescriptor `json:"afterSnapshot,omitempty"`
	IsUndone       bool                     `json:"isUndone"`
	CreatedAt      time.Time                `json:"createdAt,omitzero"`
	Failures       []FileFailure            `json:"failures,omitempty"`
}
