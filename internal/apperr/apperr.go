// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr classifies failures returned by the engagement core so
// the HTTP layer can map them to status codes without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the failure class of an Error.
type Kind int

const (
	// KindInternal covers everything that is not one of the classified
	// kinds below (store unavailable, bugs). Never shown to clients.
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(k Kind, format string, args ...any) error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing post, notification or user.
func NotFound(format string, args ...any) error { return newf(KindNotFound, format, args...) }

// Validation reports an invalid payload.
func Validation(format string, args ...any) error { return newf(KindValidation, format, args...) }

// Unauthenticated reports a missing caller identity.
func Unauthenticated(format string, args ...any) error {
	return newf(KindAuthentication, format, args...)
}

// Forbidden reports a caller that does not own the resource.
func Forbidden(format string, args ...any) error { return newf(KindAuthorization, format, args...) }

// Conflict reports a write that lost a race or repeats a one-shot action.
func Conflict(format string, args ...any) error { return newf(KindConflict, format, args...) }

// Wrap attaches a classification to an underlying error.
func Wrap(k Kind, err error, message string) error {
	return &Error{Kind: k, Message: message, Err: err}
}

// KindOf returns the classification of err, or KindInternal when err
// carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// PublicMessage returns the client-safe message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}
