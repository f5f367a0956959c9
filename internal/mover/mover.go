// Package mover performs the physical file moves behind organize and undo.
// Cross-device moves fall back to a verified copy followed by source removal.
package mover

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// HalfMoveError reports a cross-device move where the copy succeeded but the
// source could not be removed. Both paths now hold the file content.
type HalfMoveError struct {
	Source string
	Dest   string
	Err    error
}

func (e *HalfMoveError) Error() string {
	return fmt.Sprintf("file copied to %q but source %q could not be removed: %v", e.Dest, e.Source, e.Err)
}

func (e *HalfMoveError) Unwrap() error { return e.Err }

// MoveToOrganized moves a file into its organized destination, creating the
// destination directory as needed. Returns the final path.
func MoveToOrganized(currentPath, destPath string) (string, error) {
	if err := moveFile(currentPath, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// RestoreFromOrganized moves a file back to its original location.
func RestoreFromOrganized(currentPath, originalPath string) error {
	return moveFile(currentPath, originalPath)
}

func moveFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("stat source %q: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("move %q to %q: %w", src, dst, err)
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("copy %q to %q: %w", src, dst, err)
	}
	if err := os.Remove(src); err != nil {
		return &HalfMoveError{Source: src, Dest: dst, Err: err}
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}
	return errors.Is(err, syscall.EXDEV)
}

// copyFile copies a file from src to dst, verifying both size and content hash.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
