// Package httpserver wraps net/http with graceful shutdown, signal
// handling, env-driven configuration, and a combined liveness/readiness
// probe handler.
package httpserver
