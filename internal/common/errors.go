// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorValidation         = errors.New("validation error")

	// Auth errors (invalid, malformed or expired token). Transports collapse
	// every verification failure into ErrInvalidToken.
	ErrInvalidToken = errors.New("invalid or expired token")

	// Infrastructure errors. These are never returned for a failed
	// credential or token check, so an outage can be told apart from a
	// rejected caller.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrHashing            = errors.New("password hashing failed")
	ErrTokenIssuance      = errors.New("token issuance failed")
)
