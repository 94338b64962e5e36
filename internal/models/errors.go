// Package models defines the data structures for the attendance notifier.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrInvalidTarget      = errors.New("invalid notification target")
	ErrProviderSend       = errors.New("messaging provider send failed")
	ErrMissingCredentials = errors.New("messaging provider credentials not configured")
)

// ContactPrefix is the leading character every parent contact must carry.
const ContactPrefix = "+"

// ValidateTarget checks that a parent contact can be addressed.
// Only presence and the leading "+" are checked; the number itself is
// handed to the provider verbatim.
func ValidateTarget(contact string) error {
	if contact == "" {
		return fmt.Errorf("%w: parent contact is missing", ErrInvalidTarget)
	}

	if !strings.HasPrefix(contact, ContactPrefix) {
		return fmt.Errorf("%w: parent contact %q does not start with %q", ErrInvalidTarget, contact, ContactPrefix)
	}

	return nil
}

// IsInvalidTarget reports whether err came from target validation.
func IsInvalidTarget(err error) bool {
	return errors.Is(err, ErrInvalidTarget)
}

// IsProviderFailure reports whether err came from the messaging provider.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrProviderSend)
}

// ProviderError carries the provider's own error classification.
type ProviderError struct {
	Code       int
	HTTPStatus int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d (http %d): %s", e.Code, e.HTTPStatus, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
