package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockPollInterval is how often TryLock is retried while waiting.
const lockPollInterval = 100 * time.Millisecond

// FileLock guards an archive file against concurrent writers from other
// processes. The lock lives in a sibling `<archive>.lock` file so the
// archive itself can be atomically replaced while held.
type FileLock struct {
	fl      *flock.Flock
	timeout time.Duration
}

// NewFileLock builds a lock for the archive at archivePath. timeout bounds
// how long Acquire waits before giving up with ErrLockTimeout.
func NewFileLock(archivePath string, timeout time.Duration) *FileLock {
	return &FileLock{
		fl:      flock.New(archivePath + ".lock"),
		timeout: timeout,
	}
}

// Acquire takes the exclusive lock, polling until the timeout elapses or
// ctx is cancelled.
func (l *FileLock) Acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0o700); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ok, err := l.fl.TryLockContext(ctx, lockPollInterval)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrLockTimeout, l.fl.Path())
		}
		return fmt.Errorf("acquire lock %s: %w", l.fl.Path(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLockTimeout, l.fl.Path())
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *FileLock) Release() error {
	return l.fl.Unlock()
}

// Path returns the lock file location, mainly for log lines.
func (l *FileLock) Path() string {
	return l.fl.Path()
}
