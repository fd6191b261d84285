package tweet

import "errors"

var (
	// ErrStoreNil is returned when a nil store is provided
	ErrStoreNil = errors.New("store cannot be nil")

	// ErrQueueNil is returned when a nil dispatch queue is provided
	ErrQueueNil = errors.New("dispatch queue cannot be nil")

	// ErrEmptyText is returned when a tweet is created with empty text
	ErrEmptyText = errors.New("tweet text cannot be empty")

	// ErrTextTooLong is returned when tweet text exceeds the platform limit
	ErrTextTooLong = errors.New("tweet text exceeds 280 characters")

	// ErrZeroScheduleTime is returned when a tweet is created without a schedule time
	ErrZeroScheduleTime = errors.New("schedule time is required")

	// ErrNotFound is returned when a tweet does not exist or belongs to a
	// different owner; the two cases are indistinguishable on purpose
	ErrNotFound = errors.New("scheduled tweet not found")

	// ErrInvalidTransition is returned when a status change violates the
	// pending -> publishing -> {sent|failed} state machine
	ErrInvalidTransition = errors.New("invalid tweet status transition")

	// ErrNotPending is returned when deleting a tweet that already left
	// the pending state
	ErrNotPending = errors.New("cannot delete a tweet that is no longer pending")
)
