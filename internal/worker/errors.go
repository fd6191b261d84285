package worker

import "errors"

var (
	// ErrStoreNil is returned when a nil task store is provided
	ErrStoreNil = errors.New("task store cannot be nil")

	// ErrQueueNil is returned when a nil dispatch queue is provided
	ErrQueueNil = errors.New("dispatch queue cannot be nil")

	// ErrTokenSourceNil is returned when a nil token source is provided
	ErrTokenSourceNil = errors.New("token source cannot be nil")

	// ErrPublisherNil is returned when a nil publisher is provided
	ErrPublisherNil = errors.New("publisher cannot be nil")
)
