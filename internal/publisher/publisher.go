package publisher

import "context"

// Publisher posts a message to the external publishing API on behalf of
// the credential's owner. The call is a black-box side effect: it makes
// no idempotency promise of its own, which is why callers must claim a
// task before invoking it.
type Publisher interface {
	Publish(ctx context.Context, accessToken, text string) error
}
