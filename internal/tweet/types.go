package tweet

import (
	"time"

	"github.com/google/uuid"
)

// MaxTextLength is the platform limit on tweet text, counted in UTF-16
// code units (astral-plane runes count twice).
const MaxTextLength = 280

// Status represents the lifecycle state of a scheduled tweet.
type Status string

const (
	StatusPending    Status = "pending"
	StatusPublishing Status = "publishing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is valid from s.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// Tweet is a scheduled unit of future work: text to be published on
// behalf of its owner at (or after) ScheduledAt.
type Tweet struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      Status    `json:"status"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TextLength counts UTF-16 code units the way the publishing platform
// does. Runes above the basic multilingual plane occupy two units.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ValidateText checks the creation invariants for tweet text.
func ValidateText(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	if TextLength(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}
