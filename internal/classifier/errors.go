package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteDisabled reports that no API token is configured. It is a
	// configured-off state, not a failure.
	ErrRemoteDisabled = errors.New("remote classifier disabled: no API token configured")

	// ErrNoResult is the reason recorded for an unavailable outcome that did
	// not state one.
	ErrNoResult = errors.New("no classification result")
)

// TransportError represents a network error, timeout or non-success status
// returned by the remote inference service.
type TransportError struct {
	Endpoint   string
	StatusCode int    // zero when no response was received
	Body       string // truncated response body for non-success statuses
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("remote classifier: %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("remote classifier: %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("remote classifier: request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ShapeError represents a response body that matches none of the recognised
// response shapes.
type ShapeError struct {
	Reason  string
	Snippet string // optional: start of the offending body
}

func (e *ShapeError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("remote classifier: unexpected response shape: %s. Body: '%s'", e.Reason, e.Snippet)
	}
	return fmt.Sprintf("remote classifier: unexpected response shape: %s", e.Reason)
}

// FailureKind classifies why a strategy produced no result, for logging.
func FailureKind(err error) string {
	var transportErr *TransportError
	var shapeErr *ShapeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRemoteDisabled):
		return "disabled"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &shapeErr):
		return "shape_mismatch"
	default:
		return "unknown"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
