package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrUnauthenticated is returned when no credential is available.
	// No network call is made.
	ErrUnauthenticated = errors.New("no credential available")
)

// ParameterError reports a mutation payload missing required identifying
// fields. No network call is made.
type ParameterError struct {
	Field string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameters incomplete: %s is required", e.Field)
}

// TransportError reports a network-level failure: connection error,
// timeout, or a non-success HTTP status.
type TransportError struct {
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error: status %d", e.Status)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BusinessError reports a server-side failure embedded in a successful
// transport response (payload code != 200).
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// ResyncError wraps a post-mutation fetch-all failure. It is logged, never
// surfaced to the mutation's caller; the stale mirror self-heals on the
// next successful resync or explicit refresh.
type ResyncError struct {
	Kind Kind
	Err  error
}

func (e *ResyncError) Error() string {
	return fmt.Sprintf("resync %s: %v", e.Kind, e.Err)
}

func (e *ResyncError) Unwrap() error { return e.Err }
