package diag

import (
	"errors"
	"fmt"
)

// ErrReported is returned by a check that has already emitted a specific
// diagnostic. Callers must propagate it unchanged and must not report a
// second, more generic error for the same failure.
var ErrReported = errors.New("diagnostic already reported")

// InternalError marks a broken structural invariant inside the translator
// itself (index out of range, missing required child, unexpected node kind).
// It aborts translation and is never presented as a shader authoring error.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return "internal error: " + e.Op
	}
	return "internal error: " + e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// Internal wraps err as an InternalError attributed to op.
// Errors that already are internal are returned unchanged.
func Internal(op string, err error) error {
	var ie *InternalError
	if errors.As(err, &ie) {
		return err
	}
	return &InternalError{Op: op, Err: err}
}

// Internalf builds an InternalError from a format string.
func Internalf(op, format string, args ...any) error {
	return &InternalError{Op: op, Err: fmt.Errorf(format, args...)}
}

// IsInternal reports whether err carries an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
