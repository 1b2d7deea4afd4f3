// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Validation represents a malformed input, such as a phone number with no
// digits or an empty group identifier.
type Validation struct {
	base
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// Unwrap returns the wrapped error, if any.
func (v Validation) Unwrap() error {
	return v.err
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// NotFound represents an absent group, community, or participant.
type NotFound struct {
	base
}

// Error returns the error message for NotFound.
func (nf NotFound) Error() string {
	return nf.error()
}

// Unwrap returns the wrapped error, if any.
func (nf NotFound) Unwrap() error {
	return nf.err
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// PermissionDenied represents a missing admin privilege, either the bot
// lacking admin rights in a group or an attempt to remove an admin.
type PermissionDenied struct {
	base
}

// Error returns the error message for PermissionDenied.
func (pd PermissionDenied) Error() string {
	return pd.error()
}

// Unwrap returns the wrapped error, if any.
func (pd PermissionDenied) Unwrap() error {
	return pd.err
}

// NewPermissionDenied creates a new PermissionDenied error with the provided message.
func NewPermissionDenied(message string, err ...error) PermissionDenied {
	return PermissionDenied{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Unauthorized represents a phone number without a contact authorization
// record for this worker identity.
type Unauthorized struct {
	base
}

// Error returns the error message for Unauthorized.
func (u Unauthorized) Error() string {
	return u.error()
}

// Unwrap returns the wrapped error, if any.
func (u Unauthorized) Unwrap() error {
	return u.err
}

// NewUnauthorized creates a new Unauthorized error with the provided message.
func NewUnauthorized(message string, err ...error) Unauthorized {
	return Unauthorized{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Conflict represents a semantic "already present" outcome surfaced as an
// error by a storage layer. It is a valid terminal outcome, never retried.
type Conflict struct {
	base
}

// Error returns the error message for Conflict.
func (c Conflict) Error() string {
	return c.error()
}

// Unwrap returns the wrapped error, if any.
func (c Conflict) Unwrap() error {
	return c.err
}

// NewConflict creates a new Conflict error with the provided message.
func NewConflict(message string, err ...error) Conflict {
	return Conflict{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
