package auth

import "errors"

// Sentinel errors for authentication operations.
var (
	// ErrNoCredentials indicates that no bearer credential was provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidToken indicates that the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates that the bearer token has expired.
	ErrTokenExpired = errors.New("token expired")
)
