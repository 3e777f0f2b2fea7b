package auth0

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when an operation needs a valid access token
// and none can be obtained without re-authentication.
var ErrAuthRequired = errors.New("authentication required")

// ErrNotConfigured is returned when a session operation runs before SetUp.
var ErrNotConfigured = errors.New("session not configured")

// ExchangeError reports a failure talking to the token endpoint: a
// transport error, a non-2xx response, or a precondition failure detected
// before any request is sent.
type ExchangeError struct {
	// Endpoint is the URL the exchange targeted, empty for precondition
	// failures.
	Endpoint string

	// StatusCode is the HTTP status of a non-2xx response, 0 otherwise.
	StatusCode int

	// Body is the response body of a non-2xx response.
	Body string

	// Err is the underlying cause, if any.
	Err error

	// Message describes precondition failures.
	Message string
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("token exchange at %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("token exchange at %s failed: %v", e.Endpoint, e.Err)
	default:
		return "token exchange failed: " + e.Message
	}
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// SignInError wraps any failure encountered during the sign-in or sign-up
// flow. By the time it is returned, stored credentials have been cleared so
// no partial state survives the failed attempt.
type SignInError struct {
	Err error
}

// Error implements the error interface.
func (e *SignInError) Error() string {
	return fmt.Sprintf("sign-in failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *SignInError) Unwrap() error {
	return e.Err
}

// LogoutError wraps an authenticator failure during logout. Storage is left
// untouched when it is returned.
type LogoutError struct {
	Err error
}

// Error implements the error interface.
func (e *LogoutError) Error() string {
	return fmt.Sprintf("logout failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *LogoutError) Unwrap() error {
	return e.Err
}

// FetchError reports a non-200 response from the user-info endpoint.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user info fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("user info fetch failed with status %d: %s", e.StatusCode, e.Body)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
