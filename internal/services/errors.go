// Package services defines the business logic for accounts, contacts, and
// review outreach. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"sort"
	"strings"
)

// Contact-related errors.
var (
	// ErrContactNotFound indicates that the requested contact does not exist or
	// is not owned by the current user.
	ErrContactNotFound = errors.New("contact not found")

	// ErrDuplicateContact is returned when the user already has a contact with
	// the same email address.
	ErrDuplicateContact = errors.New("contact with this email already exists")
)

// Outreach errors.
var (
	// ErrEmptyContactIDs is returned by SendMany for an empty id list. It is
	// always wrapped in a *ValidationError.
	ErrEmptyContactIDs = errors.New("contact_ids must not be empty")

	// ErrTooManyContactIDs is returned when a bulk send exceeds the configured
	// maximum number of ids. It is always wrapped in a *ValidationError.
	ErrTooManyContactIDs = errors.New("too many contact_ids")
)

// Account errors.
var (
	// ErrEmailTaken is returned on registration when the email is already used.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email, a wrong
	// password, or an inactive account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates that the authenticated account no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports malformed input with a message per offending field.
// Err, when set, identifies the specific rule that failed.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil && len(e.Fields) == 0 {
		return e.Err.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// add records msg for field unless the field already has a message.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// orNil returns e when at least one field failed, otherwise nil.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string, err error) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}, Err: err}
}
