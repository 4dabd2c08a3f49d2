package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrKeyNotFound    = errors.New("key not found")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateKey runs the checks shared by every Store method.
func validateKey(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return validateString(key, "key")
}
