// Package common defines shared constants and sentinel errors used across
// client and server layers of message.ly. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Input errors.
	ErrorValidation = errors.New("validation error")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")
	ErrorStorage  = errors.New("storage error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
