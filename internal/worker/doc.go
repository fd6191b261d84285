// Package worker consumes due entries from the dispatch queue and
// publishes the corresponding tweets.
//
// The worker tolerates at-least-once delivery and cancellation races by
// claiming each tweet with a conditional pending -> publishing write
// before touching the publishing API; anything no longer claimable is
// acknowledged without side effects. A companion Reconciler sweeps for
// pending tweets that lost their dispatch entry and re-enqueues them.
package worker
