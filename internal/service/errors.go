package service

import "fmt"

// Kind classifies a service failure; the HTTP layer maps each kind to one status code
type Kind int

const (
	KindUnexpected      Kind = iota // Storage or internal failure
	KindValidation                  // Missing or malformed input
	KindUnauthenticated             // Bad credentials
	KindForbidden                   // Role or ownership mismatch
	KindNotFound                    // Target row does not exist
	KindConflict                    // Uniqueness violation
)

// Error is a failure with a message that is safe to show to the caller
type Error struct {
	Kind     Kind   // Failure class
	Message  string // Human readable message
	sentinel *Error // Sentinel this error was derived from, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match derived errors against their sentinel
func (e *Error) Unwrap() error {
	if e.sentinel == nil {
		return nil
	}
	return e.sentinel
}

// withMessage derives an error of the same kind with a more specific message
func (e *Error) withMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Message: fmt.Sprintf(format, args...), sentinel: e}
}

var (
	ErrValidation           = &Error{Kind: KindValidation, Message: "Invalid request."}
	ErrInvalidCredentials   = &Error{Kind: KindUnauthenticated, Message: "Invalid email or password. Please try again."}
	ErrDuplicateEmail       = &Error{Kind: KindConflict, Message: "An account with this email already exists."}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrAdminImmutable       = &Error{Kind: KindForbidden, Message: "Administrator accounts cannot be edited here."}
	ErrSelfDeletion         = &Error{Kind: KindValidation, Message: "You cannot delete your own account."}
	ErrDuplicateParticipant = &Error{Kind: KindConflict, Message: "A participant record with the same participant, guardian, and contact email already exists."}
	ErrParticipantNotFound  = &Error{Kind: KindNotFound, Message: "Participant record not found."}
	ErrProfileNotFound      = &Error{Kind: KindNotFound, Message: "No participant record found for this account."}
)

// validation returns a validation error with the given message
func validation(msg string) *Error {
	return ErrValidation.withMessage("%s", msg)
}
