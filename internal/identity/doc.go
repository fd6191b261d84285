// Package identity supplies owning principals and their publishing
// credentials: a Postgres-backed user repository, the TokenSource read
// path the worker uses to resolve an owner's current access token, and
// the OAuth 2.0 + PKCE login glue that acquires those tokens in the
// first place.
package identity
