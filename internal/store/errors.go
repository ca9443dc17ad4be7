package store

import "errors"

// ErrPersist reports that a state document could not be written or removed.
// The in-memory state is still valid when this is returned.
var ErrPersist = errors.New("persist state")

// ErrCorrupt reports a state document that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt state file")
