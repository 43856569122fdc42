// Package apperr defines the closed set of application errors surfaced by
// the OAuth callback and reconciliation flow. Errors are plain values
// carrying a stable kind name, a message and an HTTP status, so handlers can
// deliver them without leaking internals.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindMissingAuthCode      Kind = "MissingAuthCodeError"
	KindUserCreation         Kind = "UserCreationError"
	KindAccountCreation      Kind = "AccountCreationError"
	KindGoogleTokensCreation Kind = "GoogleTokensCreationError"
	KindAccountUpdate        Kind = "AccountUpdateError"
	KindGoogleTokensUpdate   Kind = "GoogleTokensUpdateError"
	KindUnknown              Kind = "UnknownError"
)

type Error struct {
	Kind    Kind
	Message string
	Status  int
	cause   error
}

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}

// Wrap attaches a cause to a typed error. The cause is kept for logging and
// error chains but never reaches the client.
func Wrap(kind Kind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Status: status, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches two application errors by kind, so
// errors.Is(err, apperr.New(kind, 0, "")) works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Normalize coerces any error to a typed application error. Already-typed
// errors pass through unchanged; everything else becomes an UnknownError so
// internal details never reach a redirect target.
func Normalize(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(KindUnknown, http.StatusInternalServerError, "An unexpected error occurred", err)
}
