// internal/services/errors.go
package services

import (
	"errors"
	"strings"
)

// Sentinel errors the handlers map onto HTTP statuses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrConflict           = errors.New("conflicting record already exists")
)

// FieldError carries field-level validation detail back to the client.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fieldError(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}
