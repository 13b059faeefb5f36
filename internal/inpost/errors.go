package inpost

import (
	"fmt"
	"strings"
)

// MissingEnvError is returned when required configuration is missing.
type MissingEnvError struct {
	Provider  string
	Variables []string
}

func (e MissingEnvError) Error() string {
	if len(e.Variables) == 0 {
		return fmt.Sprintf("%s credentials not configured", e.Provider)
	}
	return fmt.Sprintf("%s credentials not configured (missing %s)", e.Provider, strings.Join(e.Variables, ", "))
}

// ValidationError reports input rejected before any request was sent.
type ValidationError struct {
	Provider string
	Op       string
	Reason   string
}

func (e ValidationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s validation failed: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("%s %s: validation failed: %s", e.Provider, e.Op, e.Reason)
}

// RemoteError is a non-success response from the remote service. Body is
// the response text as received and is only meant for diagnostics.
type RemoteError struct {
	Provider   string
	Op         string
	StatusCode int
	Body       string
}

func (e RemoteError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: remote returned status %d", e.Provider, e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: remote returned status %d: %s", e.Provider, e.Op, e.StatusCode, body)
}

// DeserializationError means a response body did not have the expected shape.
type DeserializationError struct {
	Provider string
	Op       string
	Err      error
}

func (e DeserializationError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Provider, e.Op, e.Err)
}

func (e DeserializationError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure such as a refused connection,
// a DNS error or a cancelled context.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("%s %s: send request: %v", e.Provider, e.Op, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }
