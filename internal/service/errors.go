package service

import (
	"errors"
)

// --- Error Definitions ---
var (
	ErrMisconfigured    = errors.New("misconfigured")     // Required secret or key absent
	ErrBadRequest       = errors.New("bad request")       // Malformed or missing input
	ErrInvalidSignature = errors.New("invalid signature") // Webhook verification failed
	ErrUpstream         = errors.New("upstream error")    // Model call failed or returned nothing
	ErrPersistence      = errors.New("persistence failure")
)

// Error carries a message that is safe to show to callers, classified by one of the sentinels above.
type Error struct {
	Kind    error
	Message string
	Err     error // Underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// PublicMessage returns the caller-facing message of err, or fallback if err carries none.
func PublicMessage(err error, fallback string) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
