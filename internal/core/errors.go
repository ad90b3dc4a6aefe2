package core

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing means the requesting user has no usable access token
	// for the VCS host. It is fatal for a pipeline run.
	ErrCredentialMissing = errors.New("no GitHub access token found")
	// ErrNotFound is returned by lookups that yield nothing.
	ErrNotFound = errors.New("not found")
	// ErrMalformedInput marks payloads that cannot be interpreted.
	ErrMalformedInput = errors.New("malformed input")
	// ErrIgnoredEvent marks webhook events that do not start a pipeline.
	ErrIgnoredEvent = errors.New("event ignored")
)

// TransientError is a failure of an external host (network error, 5xx, rate
// limit) that is worth retrying.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err or any error it wraps is a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
