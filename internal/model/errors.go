package model

import (
	"errors"
	"fmt"
)

// TransportError is a network, timeout or server-side failure for one
// attempt. The user retries by re-triggering the request.
type TransportError struct {
	Op     string // "countries", "indicators", "data", "forecast"
	Status int    // HTTP status when the server answered, 0 otherwise
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the backend answered with something that does not
// match the endpoint schema.
type ProtocolError struct {
	Op     string
	Status int
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected response (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NoDataError is a successful answer with nothing in it: the backend found
// no data for the parameters, or rejected the year range.
type NoDataError struct {
	Op     string
	Status int
	Detail string // backend-provided explanation, may be empty
}

func (e *NoDataError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: no data: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: no data", e.Op)
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is a *ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsNoData reports whether err is a *NoDataError.
func IsNoData(err error) bool {
	var ne *NoDataError
	return errors.As(err, &ne)
}
