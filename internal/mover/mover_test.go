package mover

import (
	"os"
	"path/filepath"
	"testing"

	"thanos/internal/testsupport"
)

func TestMoveToOrganizedCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "uploads", "photo.jpg")
	testsupport.WriteFile(t, src, 64)

	dest := filepath.Join(base, "organized", "Images", "photo.jpg")
	final, err := MoveToOrganized(src, dest)
	if err != nil {
		t.Fatalf("MoveToOrganized: %v", err)
	}
	if final != dest {
		t.Fatalf("expected %q, got %q", dest, final)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
}

func TestMoveMissingSourceFails(t *testing.T) {
	base := t.TempDir()
	_, err := MoveToOrganized(filepath.Join(base, "nope.txt"), filepath.Join(base, "out", "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestRestoreFromOrganized(t *testing.T) {
	base := t.TempDir()
	organized := filepath.Join(base, "organized", "Docs", "file.txt")
	testsupport.WriteFile(t, organized, 32)

	original := filepath.Join(base, "uploads", "file.txt")
	if err := RestoreFromOrganized(organized, original); err != nil {
		t.Fatalf("RestoreFromOrganized: %v", err)
	}
	if _, err := os.Stat(original); err != nil {
		t.Fatalf("original missing after restore: %v", err)
	}
	if _, err := os.Stat(organized); !os.IsNotExist(err) {
		t.Fatalf("organized copy still present: %v", err)
	}
}

func TestCopyFileVerifiesContent(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src.bin")
	testsupport.WriteFile(t, src, 4096)

	dst := filepath.Join(base, "dst.bin")
	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile: %v", err)
	}

	srcData, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	dstData, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(srcData) != string(dstData) {
		t.Fatal("copied content differs from source")
	}
}
