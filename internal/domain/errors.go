package domain

import "errors"

// Error kinds. Every error returned by the services unwraps to one of these.
var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrNotificationFailure = errors.New("notification failure")
)

// Error carries a message that is safe to show to API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrEmailRequired         = &Error{Kind: ErrValidation, Message: "A valid email is required"}
	ErrEmailFormat           = &Error{Kind: ErrValidation, Message: "Please provide a valid email format"}
	ErrContactFieldsRequired = &Error{Kind: ErrValidation, Message: "All fields are required"}
	ErrAlreadySubscribed     = &Error{Kind: ErrConflict, Message: "Email already subscribed"}
	ErrBadCredential         = &Error{Kind: ErrUnauthorized, Message: "Unauthorized"}
)

// PublicMessage returns the client-facing message of err, or fallback when
// err does not carry one.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
