package http

import "fmt"

// =============================================================================
// ERRORS
// =============================================================================

// AuthError indicates a failed credential exchange against a token endpoint.
type AuthError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// APIError is an unsuccessful, non-401 response from a platform API.
// Code and Message carry the platform's structured error body when the
// connector's decoder recognized it; Body always keeps the raw payload.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string

	// TokenRejected marks a 401 received after a refresh already happened.
	// The client never refreshes twice for one call.
	TokenRejected bool
}

func (e *APIError) Error() string {
	if e.TokenRejected {
		return fmt.Sprintf("HTTP %d: token rejected after refresh", e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// IsServerError returns true if this is a 5xx response.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}
