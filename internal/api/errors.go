package api

import (
	"errors"
	"fmt"
	"strings"
)

// The error taxonomy mirrors how failures surface to the user: an
// AuthError redirects to login, a ValidationError renders inline, a
// ServerError gets a retry affordance. A legitimately empty result is
// never an error.

// AuthError means the credential is missing or no longer accepted.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication required: " + e.Reason
}

// ValidationError is bad user input, rejected either locally before any
// network call or by the server with a 400. Fields carries per-field
// messages when the server provides them.
type ValidationError struct {
	Reason string
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Reason
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ServerError is any other non-2xx response or transport failure.
// StatusCode 0 means the request never got a response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.StatusCode == 0 {
		return "request failed: " + e.Message
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether re-issuing the same request can help.
func (e *ServerError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
