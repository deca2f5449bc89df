package auth

import (
	"fmt"

	apperrors "github.com/mimirlabs/mimir/pkg/errors"
)

// ErrNotAuthenticated is returned by operations that require a session.
var ErrNotAuthenticated = apperrors.ErrUnauthorized

// ErrEmailNotFound is returned when no account matches the login email.
// It counts as a failed attempt.
var ErrEmailNotFound = &apperrors.AppError{
	Kind:    apperrors.KindNotFound,
	Field:   "email",
	Message: "This email is not registered.",
}

// AccountLockedError rejects a login while the lockout window is open.
// No credential check happens while locked.
type AccountLockedError struct {
	MinutesRemaining int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", e.MinutesRemaining)
}

// Is lets callers match the account_locked kind without the concrete type.
func (e *AccountLockedError) Is(target error) bool {
	appErr, ok := target.(*apperrors.AppError)
	return ok && appErr.Kind == apperrors.KindAccountLocked
}

// WrongPasswordError is returned on a failed credential check. It carries
// the remaining-attempt count so the caller can surface the pre-lockout
// warning, and reports when this failure tripped the lockout.
type WrongPasswordError struct {
	AttemptsRemaining int
	Locked            bool
}

func (e *WrongPasswordError) Error() string {
	if e.Locked {
		return "Too many failed attempts. The account is temporarily locked."
	}
	return "The password you entered is incorrect."
}

// Is lets callers match the wrong_password kind without the concrete type.
func (e *WrongPasswordError) Is(target error) bool {
	appErr, ok := target.(*apperrors.AppError)
	return ok && appErr.Kind == apperrors.KindWrongPassword
}
