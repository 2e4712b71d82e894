package gothunker

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInvocable marks an extra argument to enhance that is not a
	// factory function of a supported shape.
	ErrNotInvocable = errors.New("not invocable")

	// ErrUnsupportedThunk is returned when a function is dispatched whose
	// signature does not match the active calling convention.
	ErrUnsupportedThunk = errors.New("unsupported thunk signature")
)

// ConfigurationError reports a misconfigured extra argument to enhance. It
// is returned synchronously from the dispatch that tried to use it.
type ConfigurationError struct {
	// Key is the offending entry of the extra arguments to enhance.
	Key string
	// Value is the value found under Key.
	Value any
	// Err is the underlying cause, usually ErrNotInvocable.
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gothunker: extra argument to enhance %q (%T): %v", e.Key, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
