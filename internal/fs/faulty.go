package fs

import (
	"errors"
	"os"
	"sync"
	"syscall"
)

// Op names an [FS] operation that [Faulty] can fail.
type Op string

const (
	OpReadFile Op = "read"
	OpWrite    Op = "write"
	OpMkdirAll Op = "mkdir"
	OpLock     Op = "lock"
	OpExists   Op = "exists"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op  Op
	Err error
}

func (e *InjectedError) Error() string {
	return "injected " + string(e.Op) + ": " + e.Err.Error()
}

func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails the operations armed with [Faulty.Fail].
// Unarmed operations pass through to the wrapped FS.
//
// Faulty is safe for concurrent use.
type Faulty struct {
	inner FS

	mu    sync.Mutex
	armed map[Op]error
	calls map[Op]int
}

// NewFaulty wraps inner.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{inner: inner, armed: map[Op]error{}, calls: map[Op]int{}}
}

// Fail makes every subsequent op fail with err (ENOSPC when err is nil).
func (f *Faulty) Fail(op Op, err error) {
	if err == nil {
		err = syscall.ENOSPC
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.armed[op] = err
}

// Heal disarms op.
func (f *Faulty) Heal(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.armed, op)
}

// Calls returns how many times op was attempted.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err, ok := f.armed[op]; ok {
		return &InjectedError{Op: op, Err: err}
	}

	return nil
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWrite); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpExists); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

func (f *Faulty) Lock(path string) (Locker, error) {
	if err := f.check(OpLock); err != nil {
		return nil, err
	}

	return f.inner.Lock(path)
}

var _ FS = (*Faulty)(nil)
