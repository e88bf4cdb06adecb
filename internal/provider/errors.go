package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// CredentialError reports that no API key was available for a provider,
// neither via option nor environment.
type CredentialError struct {
	EnvVar string
}

func (e *CredentialError) Error() string {
	return "provider: " + e.EnvVar + " not set and no API key provided"
}

// RateLimitError wraps an HTTP 429 from a provider. Retryable.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return "rate limited: " + e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

// AuthError wraps an HTTP 401 or 403 from a provider. Never retried.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// ServerError wraps an HTTP 5xx from a provider. Retryable.
type ServerError struct {
	StatusCode int
	Err        error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %v", e.StatusCode, e.Err)
}
func (e *ServerError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is transient (rate limit or server error)
// and worth retrying with backoff.
func IsRetryable(err error) bool {
	var rl *RateLimitError
	var se *ServerError
	return errors.As(err, &rl) || errors.As(err, &se)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// classifyStatus maps an HTTP status code onto the typed error taxonomy.
// Statuses outside the taxonomy pass err through unchanged.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Err: err}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Err: err}
	case status >= 500:
		return &ServerError{StatusCode: status, Err: err}
	}
	return err
}
