package client

import (
	"fmt"
	"strings"
)

// APIError is the structured failure returned by every Client call
type APIError struct {
	// Message is the human-readable description shown to users
	Message string `json:"message"`

	// Status is the HTTP status when the server answered, zero otherwise
	Status int `json:"status,omitempty"`

	// Cause is the underlying transport or codec error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	parts := []string{}
	if e.Status > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the message meant for display
func (e *APIError) UserMessage() string {
	return e.Message
}

// HasStatus reports whether the server produced a response
func (e *APIError) HasStatus() bool {
	return e.Status > 0
}

func newAPIError(message string, status int, cause error) *APIError {
	return &APIError{Message: message, Status: status, Cause: cause}
}
