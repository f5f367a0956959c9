package organize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"thanos/internal/services"
)

// acquireJobLock takes the cross-process organize lock. The returned release
// function must be called when the job finishes.
func acquireJobLock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire organize lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(
			services.ErrConflict,
			"organizing",
			"acquire lock",
			"another organize job is already running",
			nil,
		)
	}
	return func() { _ = lock.Unlock() }, nil
}
