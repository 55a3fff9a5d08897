package services

import "errors"

// Sentinel errors shared by services, repositories and handlers. Callers
// wrap them with %w and match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")

	ErrCredentialRequired = errors.New("credential is required")
	ErrWrongCredential    = errors.New("credential is incorrect")
	ErrTooManyAttempts    = errors.New("too many credential attempts, try again later")
	ErrUnknownAccount     = errors.New("account does not exist")

	ErrTokenRequired = errors.New("deletion token is required")
	ErrInvalidToken  = errors.New("deletion token is invalid or expired")

	ErrSessionRequired = errors.New("session is required")
	ErrSessionExpired  = errors.New("session is invalid or expired")
)
