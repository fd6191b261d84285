// Package dispatch provides the delayed dispatch queue: a time-delayed
// trigger keyed by task identity that supports cancellation before
// delivery.
//
// The Redis implementation stores entries in a sorted set scored by due
// time. Re-enqueueing an id replaces its score, cancel removes the
// member, and due entries are popped atomically via a Lua script so
// each enqueue is delivered to exactly one consumer. The in-memory
// implementation mirrors these semantics for tests and local runs.
package dispatch
