// Package apperrors carries the machine-checkable error kinds surfaced by
// the service layer. Handlers map kinds to HTTP statuses; services attach a
// human-readable detail string.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Internal is an unexpected storage or gateway failure.
	Internal Kind = iota
	// NotFound means the referenced entity does not exist.
	NotFound
	// InvalidInput means the request was malformed (bad seat numbers,
	// non-positive amounts).
	InvalidInput
	// Conflict means an atomicity guard rejected the operation (seat already
	// purchased, duplicate outstanding withdrawal, draw already completed).
	Conflict
	// InsufficientFunds means a debit exceeded the wallet balance.
	InsufficientFunds
	// PreconditionFailed means the entity exists but is in the wrong state
	// (contest not active, no prize structure, no purchased seats).
	PreconditionFailed
	// Unauthorized means the caller's identity could not be established or
	// lacks the required role.
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case InsufficientFunds:
		return "insufficient_funds"
	case PreconditionFailed:
		return "precondition_failed"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a classified error with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
