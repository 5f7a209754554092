package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no recommendation has the requested id.
	ErrNotFound = errors.New("recommendation not found")
	// ErrConflict is returned by Update when the persisted token no longer
	// matches the one held by the caller.
	ErrConflict = errors.New("the record was updated by another process")
)

// StorageError wraps a failure of the underlying database.
// Any transaction in flight has been rolled back when it is returned.
type StorageError struct {
	Op  string
	ID  int64
	Err error
}

func (e *StorageError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("recommendations %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("recommendations %s id=%d: %v", e.Op, e.ID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
