package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. Callers match on kinds, never on messages.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindPermission        Kind = "PERMISSION"
	KindNotVerified       Kind = "NOT_VERIFIED"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindAlreadyClaimed    Kind = "ALREADY_CLAIMED"
	KindNotFound          Kind = "NOT_FOUND"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindConflict          Kind = "CONFLICT"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrPermission        = &Error{Kind: KindPermission}
	ErrNotVerified       = &Error{Kind: KindNotVerified}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrAlreadyClaimed    = &Error{Kind: KindAlreadyClaimed}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrConflict          = &Error{Kind: KindConflict}
)

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationFields carries per-field messages alongside a summary.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

func NotVerified(message string) *Error {
	return &Error{Kind: KindNotVerified, Message: message}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
	}
}

func AlreadyClaimed(message string) *Error {
	return &Error{Kind: KindAlreadyClaimed, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first *Error in the chain, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
