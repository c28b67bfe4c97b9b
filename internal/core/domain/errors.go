package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrSimulatedFailure   = errors.New("simulated transient failure")
	ErrNetwork            = errors.New("backend unreachable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
)
