package models

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTicketsExhausted = errors.New("no tickets remaining")
	ErrVIPRequired      = errors.New("vip subscription required")
	ErrGuestNotEligible = errors.New("guests cannot hold a subscription")
	ErrProvider         = errors.New("payment provider error")
	ErrNotConfigured    = errors.New("feature not configured")
)

// ValidationError carries a user-facing message and unwraps to ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
