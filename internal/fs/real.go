package fs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// ErrLockTimeout is returned when another process holds the lock for longer
// than the lock timeout.
var ErrLockTimeout = errors.New("lock timeout")

// Real implements [FS] using the real filesystem.
type Real struct {
	// LockTimeout bounds how long [Real.Lock] waits. Zero means 2s.
	LockTimeout time.Duration
}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// A passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (r *Real) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	err := atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return err
	}

	// atomic.WriteFile doesn't set permissions for new files
	return os.Chmod(path, perm)
}

// A passthrough wrapper for [os.MkdirAll].
func (r *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (r *Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

const (
	defaultLockTimeout = 2 * time.Second
	lockPerms          = 0o644
	lockDirPerms       = 0o755
	maxLockBackoff     = 25 * time.Millisecond
)

// realLock holds an exclusive flock. The lock file itself is left on disk:
// unlinking it while another process waits on the inode would let two
// processes believe they hold the lock.
type realLock struct {
	file *os.File
}

func (l *realLock) Close() error {
	if l.file == nil {
		return nil
	}

	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	return errors.Join(unlockErr, closeErr)
}

// Lock polls a non-blocking flock with backoff until it succeeds or the
// timeout expires.
func (r *Real) Lock(path string) (Locker, error) {
	timeout := r.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}

	if err := os.MkdirAll(filepath.Dir(path), lockDirPerms); err != nil {
		return nil, fmt.Errorf("creating lock dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockPerms)
	if err != nil {
		return nil, fmt.Errorf("opening lockfile: %w", err)
	}

	deadline := time.Now().Add(timeout)
	backoff := time.Millisecond

	for {
		err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &realLock{file: file}, nil
		}

		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			_ = file.Close()

			return nil, fmt.Errorf("flock %s: %w", path, err)
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}

		time.Sleep(backoff)

		backoff = min(backoff*2, maxLockBackoff)
	}
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
