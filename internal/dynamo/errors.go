package dynamo

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument indicates bad construction parameters or a malformed
// evaluation request (wrong dimension, objective index).
var ErrInvalidArgument = errors.New("dynamo: invalid argument")

// ArgumentError wraps ErrInvalidArgument with the offending field and,
// for per-dimension checks, its index.
type ArgumentError struct {
	Field  string
	Index  int
	Reason string
}

// NewArgumentError returns an ArgumentError that does not refer to a
// dimension.
func NewArgumentError(field, format string, args ...any) *ArgumentError {
	return &ArgumentError{Field: field, Index: -1, Reason: fmt.Sprintf(format, args...)}
}

func (e *ArgumentError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s[%d]: %s", ErrInvalidArgument, e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidArgument, e.Field, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
