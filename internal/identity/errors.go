package identity

import "errors"

var (
	// ErrUserNotFound is returned when no user exists for the given id
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidState is returned when an OAuth callback carries an
	// unknown or expired state parameter
	ErrInvalidState = errors.New("invalid or expired oauth state")
)
