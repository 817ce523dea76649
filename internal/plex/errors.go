package plex

import (
	"errors"
	"fmt"
)

// ErrNoSession indicates that no active session matched the requested viewer.
// It is a distinct outcome from a connectivity failure.
var ErrNoSession = errors.New("plex: no active session for viewer")

// UnreachableError indicates the directory fetch could not reach the server.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("plex: server unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// StatusError indicates the directory responded with an error status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("plex: server returned status %d", e.Code)
}
