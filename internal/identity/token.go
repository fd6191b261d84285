package identity

import (
	"context"

	"github.com/google/uuid"
)

// TokenSource is the worker-facing read path: given an owner
// reference, obtain the credential currently usable to publish on the
// owner's behalf. The caller treats the token opaquely.
type TokenSource interface {
	AccessToken(ctx context.Context, ownerID uuid.UUID) (string, error)
}

type repoTokenSource struct {
	repo Repository
}

// NewTokenSource creates a TokenSource that reads the current access
// token from the user repository on every call, so a token refreshed
// by a new login is picked up without worker restarts.
func NewTokenSource(repo Repository) TokenSource {
	return &repoTokenSource{repo: repo}
}

func (ts *repoTokenSource) AccessToken(ctx context.Context, ownerID uuid.UUID) (string, error) {
	u, err := ts.repo.Get(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return u.AccessToken, nil
}
