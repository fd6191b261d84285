// Package redis wraps the go-redis client with connection helpers used
// by the dispatch queue: robust Connect with retry, and a health-check
// closure for readiness probes.
package redis
