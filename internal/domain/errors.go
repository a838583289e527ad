package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors the transport layer maps to status codes.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError describes a rejected field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// OpError tags a store failure with the operation that failed. It matches
// ErrStoreUnavailable and also unwraps to the driver error.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

// StoreError wraps err as an OpError unless it is nil or already classified.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotAuthorized) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return &OpError{Op: op, Err: err}
}
