// Package api is the request-handling layer: it decodes HTTP requests
// into core scheduling operations and encodes results back. Transport
// shape validation (required fields, timestamp format, identity header)
// happens here before anything reaches the core; domain invariants are
// enforced by the core itself.
package api
