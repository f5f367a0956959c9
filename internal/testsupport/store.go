package testsupport

import (
	"context"
	"testing"

	"thanos/internal/catalog"
	"thanos/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewFileRecord inserts a file record for tests using the provided store.
func NewFileRecord(t testing.TB, store *catalog.Store, record *catalog.FileRecord) *catalog.FileRecord {
	t.Helper()

	if record.CurrentName == "" {
		record.CurrentName = record.OriginalName
	}
	if record.CurrentPath == "" {
		record.CurrentPath = record.OriginalPath
	}
	if err := store.CreateFile(context.Background(), record); err != nil {
		t.Fatalf("store.CreateFile: %v", err)
	}
	return record
}
