package auth

import "errors"

var (
	// ErrInvalidCredentials never says which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingSession     = errors.New("missing session token")
	ErrInvalidSession     = errors.New("invalid session token")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
)
