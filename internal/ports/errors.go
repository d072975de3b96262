package ports

import (
	"errors"
	"fmt"
)

// Common storage error conditions
var (
	ErrObjectNotFound     = errors.New("Object not found")
	ErrInvalidKey         = errors.New("invalid storage key")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrTimeout            = errors.New("operation timeout")
)

// StorageError represents a port operation failure with additional context
type StorageError struct {
	Op        string // Operation that failed (e.g., "GetItem", "GetObject")
	Key       string // Table/bucket-qualified key involved in the operation
	Err       error  // Underlying error
	Retryable bool   // Whether the operation can be retried
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s operation failed for key '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s operation failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error indicates a retryable condition
func (e *StorageError) IsRetryable() bool {
	return e.Retryable
}

// NewStorageError creates a new StorageError
func NewStorageError(op, key string, err error, retryable bool) *StorageError {
	return &StorageError{
		Op:        op,
		Key:       key,
		Err:       err,
		Retryable: retryable,
	}
}

// IsNotFound returns true if the error indicates a missing object
func IsNotFound(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return errors.Is(storageErr.Err, ErrObjectNotFound)
	}
	return errors.Is(err, ErrObjectNotFound)
}

// IsRetryable returns true if the error indicates a retryable condition
func IsRetryable(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.IsRetryable()
	}

	return errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, ErrTimeout)
}
