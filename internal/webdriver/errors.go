package webdriver

import (
	"errors"
	"fmt"
	"time"
)

// ProtocolError is a structured error returned by the WebDriver server.
// Kind carries the protocol error code, e.g. "no such element".
type ProtocolError struct {
	Kind    string
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

// IsNoSuchElement reports whether err is the protocol's "no such element"
// failure.
func IsNoSuchElement(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Kind == "no such element"
}

// TimeoutError indicates a protocol call exceeded its configured bound.
// Session state is left untouched when this is returned.
type TimeoutError struct {
	Method  string
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %s %s", e.Timeout, e.Method, e.URL)
}

// ConnectionError indicates the WebDriver server could not be reached at all.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to WebDriver at %s: %v (is tauri-driver running?)", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
