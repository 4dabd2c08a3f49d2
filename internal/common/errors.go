// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Identity errors.
	ErrDuplicateEmail     = errors.New("e-mail já cadastrado")
	ErrInvalidCredentials = errors.New("e-mail ou senha inválidos")

	// Ledger errors.
	ErrNoSession = errors.New("nenhuma sessão ativa")

	// Storage errors.
	ErrMalformedData = errors.New("malformed stored data")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError reports a field that failed an input rule. It is the error a
// form shows inline next to the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage picks the text to show for err: the validation message, the user
// message, or the error itself.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.UserMessage
	}
	return err.Error()
}
