// Package pg provides PostgreSQL connectivity helpers built on pgx:
// pool creation with retry, health checks for readiness probes, and
// goose-based schema migrations routed through the application logger.
package pg
