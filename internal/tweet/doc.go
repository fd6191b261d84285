// Package tweet holds the scheduled-tweet domain: the task model and
// its status state machine, the durable Store contract with Postgres
// and in-memory implementations, and the Service that schedules,
// lists, and cancels tweets against a dispatch queue.
//
// Status transitions are pending -> publishing -> {sent|failed}. The
// publishing step is an atomic claim: the worker flips it with a
// conditional write before calling the publish API, so a concurrent
// cancel observes a non-pending status and is rejected rather than
// racing the publish. sent and failed are terminal; no transition or
// deletion is valid from them.
package tweet
