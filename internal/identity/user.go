package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is an owning principal: the account whose credential is used to
// publish scheduled tweets.
type User struct {
	ID           uuid.UUID `json:"id"`
	TwitterID    string    `json:"twitter_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
