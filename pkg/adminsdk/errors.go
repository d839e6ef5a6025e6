package adminsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for session-level conditions.
var (
	// ErrSessionExpired is the terminal signal handed to a caller whose
	// request could not be completed because the session was torn down.
	// Callers should stop whatever they were doing; retrying cannot help.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated is returned by operations that need an
	// authenticated session when none is established.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrTooManyLoginAttempts is returned when the client-side login
	// limiter rejects an attempt before it reaches the backend.
	ErrTooManyLoginAttempts = errors.New("too many login attempts, slow down")
)

// TransportError means no usable response reached the client (offline, DNS
// failure, timeout). It never mutates session state.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the backend, carrying the server's
// message verbatim. A 403 APIError means "authenticated but forbidden" and is
// purely a caller-level concern; it never affects the session.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// IsForbidden reports whether the error represents an authorization failure
// for this specific action (HTTP 403).
func (e *APIError) IsForbidden() bool { return e.StatusCode == http.StatusForbidden }

// AuthenticationError means the login credentials were rejected. It carries
// the server-provided message when one exists, otherwise the transport
// message.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string { return e.Message }

func (e *AuthenticationError) Unwrap() error { return e.Err }

// PolicyError is a client-side rejection: the authorization policy refused
// the operation before any network call was made.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return e.Reason }

// parseAPIError builds an *APIError from a failing response body. The body
// is best-effort JSON {"error": "...", "details": "..."}; anything else
// degrades to the bare status text.
func parseAPIError(statusCode int, body []byte) *APIError {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &APIError{StatusCode: statusCode, Message: er.Error, Details: er.Details}
	}
	return &APIError{StatusCode: statusCode}
}

// serverMessage extracts the "error" field from a failure body, or "".
func serverMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		return er.Error
	}
	return ""
}
