package backend

import (
	"errors"
	"fmt"
)

var (
	AuthenticationFailedErr = errors.New("backend authentication failed")
	BackendRejectedErr      = errors.New("backend rejected the request")
	BackendUnavailableErr   = errors.New("backend unavailable")
)

// StatusError is returned when the backend accepted the connection but
// answered a record or auth operation with a non-success status. It carries
// the raw status code and body for diagnostics.
type StatusError struct {
	kind       error
	Op         string
	StatusCode int
	Body       string
}

func newStatusError(kind error, op string, statusCode int, body string) *StatusError {
	return &StatusError{kind: kind, Op: op, StatusCode: statusCode, Body: body}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d: %s", e.kind, e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == e.kind
}

// TransportError is returned when the request never produced a backend
// response: timeout, connection refused, DNS or TLS failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %s", BackendUnavailableErr, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == BackendUnavailableErr
}
