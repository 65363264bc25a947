package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_AcquireRelease(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "vault.gvk")

	lock := NewFileLock(archivePath, time.Second)
	require.NoError(t, lock.Acquire(context.Background()))
	assert.Equal(t, archivePath+".lock", lock.Path())
	require.NoError(t, lock.Release())

	// Reacquire after release must succeed immediately.
	require.NoError(t, lock.Acquire(context.Background()))
	require.NoError(t, lock.Release())
}

func TestFileLock_Timeout(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "vault.gvk")

	holder := NewFileLock(archivePath, time.Second)
	require.NoError(t, holder.Acquire(context.Background()))
	defer holder.Release()

	// flock locks are per file description, so a second Flock value in
	// the same process contends with the first.
	waiter := NewFileLock(archivePath, 300*time.Millisecond)
	start := time.Now()
	err := waiter.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFileLock_ContextCancel(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "vault.gvk")

	holder := NewFileLock(archivePath, time.Minute)
	require.NoError(t, holder.Acquire(context.Background()))
	defer holder.Release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	waiter := NewFileLock(archivePath, time.Minute)
	err := waiter.Acquire(ctx)
	assert.Error(t, err)
}
