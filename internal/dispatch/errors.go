package dispatch

import "errors"

var (
	// ErrClientNil is returned when a nil Redis client is provided
	ErrClientNil = errors.New("redis client cannot be nil")
)
