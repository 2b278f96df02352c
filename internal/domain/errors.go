package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes with errors.Is; everything else is an internal error.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrDuplicateEmail = errors.New("email already in use")
)
