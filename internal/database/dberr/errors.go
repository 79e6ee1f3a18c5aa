// Package dberr holds the error values shared by every repository.
//
// Repositories wrap driver failures with Storage so callers can match them
// with errors.Is(err, dberr.ErrStorage) regardless of the underlying driver,
// and report missing rows with ErrNotFound.
package dberr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStorage matches any StorageError.
var ErrStorage = errors.New("storage failure")

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Storage wraps err as a StorageError for op. A nil err stays nil and
// gorm.ErrRecordNotFound becomes ErrNotFound.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &StorageError{Op: op, Err: err}
}

// NotFound returns ErrNotFound annotated with the entity and its id.
func NotFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}
