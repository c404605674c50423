// Package common defines shared constants and sentinel errors used across
// the newsletter service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Storage availability (connection acquisition, timeouts).
	ErrorStorageUnavailable = errors.New("storage unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors. Deliberately opaque: "unknown user", "wrong password"
	// and "malformed stored hash" all collapse into ErrInvalidCredentials,
	// and every token verification failure collapses into ErrInvalidToken.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Subscription lifecycle errors.
	ErrMissingToken = errors.New("missing confirmation token")

	// Email delivery errors; the subscription mutation is not rolled back
	// when delivery fails, so callers must treat this as retryable.
	ErrEmailDelivery = errors.New("email delivery failed")
)
