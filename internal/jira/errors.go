package jira

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to the presentation layer so it can distinguish
// transient transport failures from configuration-level problems.
const (
	CodeNetwork       = "NETWORK_ERROR"
	CodeFetchVisits   = "FETCH_VISITS_ERROR"
	CodeFetchProjects = "FETCH_PROJECTS_ERROR"
	CodeFetchFields   = "FETCH_FIELDS_ERROR"
	CodeRateLimit     = "RATE_LIMIT_ERROR"
)

// APIError is a failed Jira REST call: an HTTP status plus a stable
// machine-readable code and a human-readable message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
}

// Retryable reports whether the failure is worth retrying: rate limits
// and server errors are, other client errors are surfaced immediately.
func (e *APIError) Retryable() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode >= 500
}

func newAPIError(status int, code, message string) *APIError {
	if status == http.StatusTooManyRequests {
		code = CodeRateLimit
	}
	return &APIError{StatusCode: status, Code: code, Message: message}
}

// IsRetryable classifies any error for the retry loop. Plain transport
// errors (connection refused, timeouts) are always retryable; typed API
// errors decide for themselves.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}
