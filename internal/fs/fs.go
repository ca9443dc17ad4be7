// Package fs provides the filesystem operations the state files need, behind
// an interface so tests can inject failures.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [Real]: production implementation using [os] and atomic renames
//   - [Faulty]: testing implementation that fails selected operations
package fs

import (
	"io"
	"os"
)

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
//
// Example:
//
//	lock, err := fsys.Lock("/data/.pontos.lock")
//	if err != nil {
//	    return err // lock contention or timeout
//	}
//	defer lock.Close()
type Locker interface {
	io.Closer
}

// FS defines the filesystem operations used by the stores.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename so a crash never leaves a half-written file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Lock acquires an exclusive lock on path, waiting up to the lock timeout.
	// Used for coordinating access between processes.
	Lock(path string) (Locker, error)
}
