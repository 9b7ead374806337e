package jira

import (
	"fmt"
)

// NotFoundError indicates the upstream confirmed that no issue exists for
// the requested key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("issue %s not found", e.Key)
}

// AuthError indicates the upstream rejected the configured credentials.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("jira authentication failed (status %d)", e.StatusCode)
}

// UpstreamError covers network failures, timeouts and unexpected upstream
// statuses. StatusCode is zero when no response was received.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("jira request failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("jira request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
