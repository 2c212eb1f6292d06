package lounge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed or missing identifier supplied
	// by the caller. It is returned before any network I/O happens.
	ErrInvalidArgument = errors.New("lounge: invalid argument")

	// ErrNotFound reports that the remote service knows nothing about the
	// requested entity.
	ErrNotFound = errors.New("lounge: entity not found")
)

// TransportError wraps a connectivity failure, timeout or non-success HTTP
// status from the remote service. The underlying cause is preserved for
// diagnostics and can be recovered with errors.Unwrap.
type TransportError struct {
	// StatusCode is the HTTP status of the failed response, or zero when the
	// request never produced one.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lounge: transport failure (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("lounge: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response that was received but does not match the
// expected entity shape: a required field is absent or carries a value of an
// incompatible type. It usually indicates a contract mismatch between this
// client and the remote service.
type DecodeError struct {
	Entity string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("lounge: decode %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("lounge: decode %s: field %q: %s", e.Entity, e.Field, e.Reason)
}
