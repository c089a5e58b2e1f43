package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when a token is requested with an
	// unknown email or a wrong password. Both cases share one message.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	// ErrInvalidToken is returned when a presented token does not resolve to an active user.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmailRequired is returned by CreateUser for an empty email.
	ErrEmailRequired = errors.New("users must have an email address")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
