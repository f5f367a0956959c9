package catalog

import (
	"encoding/json"
	"fmt"
)

// snapshotVersion is the current snapshot envelope version. Decoding rejects
// any other version instead of guessing at field layout.
const snapshotVersion = 1

// FileDescriptor captures the externally visible state of one file at
// snapshot time.
type FileDescriptor struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

// Snapshot is the versioned envelope stored in organization rows. File order
// is preserved exactly as captured.
type Snapshot struct {
	Version int              `json:"version"`
	Files   []FileDescriptor `json:"files"`
}

// EncodeSnapshot serializes descriptors into the versioned envelope.
func EncodeSnapshot(files []FileDescriptor) (string, error) {
	if files == nil {
		files = []FileDescriptor{}
	}
	data, err := json.Marshal(Snapshot{Version: snapshotVersion, Files: files})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses an encoded snapshot. An empty value decodes to nil.
func DecodeSnapshot(encoded string) (*Snapshot, error) {
	if encoded == "" {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(encoded), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", snap.Version)
	}
	return &snap, nil
}
