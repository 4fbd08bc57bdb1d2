package storage

import (
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// StoreError describes a failed store operation. It matches
// core.ErrStoreUnavailable under errors.Is and unwraps to the driver error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", core.ErrStoreUnavailable, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == core.ErrStoreUnavailable
}

// Unavailable wraps err as a StoreError for op. A nil err stays nil and an
// existing StoreError is returned unchanged.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
