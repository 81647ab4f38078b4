package remote

import (
	"errors"
	"fmt"
)

// ErrMalformedBody is returned when a list response is not {"items": [...]}.
var ErrMalformedBody = errors.New("malformed response body")

// StatusError reports a non-2xx response.
type StatusError struct {
	Op     string
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s %s: unexpected status %d", e.Op, e.Method, e.URL, e.Code)
}

// TransportError wraps a failure to reach the service or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
