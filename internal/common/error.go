// Package common defines shared constants and sentinel errors used across
// the Shopkeeper services. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors. ErrInvalidCredentials deliberately covers every login
	// failure cause so the response never reveals whether the username exists.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	// Token lifecycle errors (invalid covers signature, structure and kind).
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Order-specific errors.
	ErrorEmptyOrder          = errors.New("order must contain at least one item")
	ErrorInvalidOrderStatus  = errors.New("invalid order status")
	ErrorOrderNotCancellable = errors.New("order can no longer be cancelled")

	// Review-specific errors.
	ErrorReviewNotAllowed = errors.New("review not allowed")
)
