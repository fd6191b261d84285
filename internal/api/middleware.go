package api

import (
	"context"
	"net/http"
	"slices"

	"github.com/google/uuid"
)

type contextKey string

const ownerContextKey contextKey = "owner_id"

// OwnerHeader carries the authenticated principal's id. Authentication
// itself happens upstream; this layer only refuses requests without an
// identity and threads the owner explicitly into every core call.
const OwnerHeader = "X-User-ID"

// requireOwner rejects requests without a parseable identity header and
// stores the owner id in the request context.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(OwnerHeader)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, JSONResponse{Error: &ErrorDetail{
				Code: "unauthorized",
			}})
			return
		}

		ownerID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, JSONResponse{Error: &ErrorDetail{
				Code:    "unauthorized",
				Message: "malformed user id",
			}})
			return
		}

		ctx := context.WithValue(r.Context(), ownerContextKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerFromContext returns the authenticated owner id set by requireOwner.
func ownerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerContextKey).(uuid.UUID)
	return id, ok
}

// corsAllowList permits cross-origin requests from the configured
// origins only. Requests without an Origin header pass through
// untouched.
func corsAllowList(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Vary", "Origin")

				if r.Method == http.MethodOptions {
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+OwnerHeader)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
