package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds request-layer settings.
type Config struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// OAuthHandlers is the login glue mounted next to the API routes.
type OAuthHandlers interface {
	Begin(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
}

// RouterOptions configures which collaborators the router mounts.
type RouterOptions struct {
	Handler *Handler
	OAuth   OAuthHandlers // optional; login routes are skipped when nil
	Health  http.HandlerFunc
	CORS    []string
}

// NewRouter builds the service's HTTP surface.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsAllowList(opts.CORS))

	if opts.Health != nil {
		r.Get("/healthz", opts.Health)
	}

	if opts.OAuth != nil {
		r.Route("/auth/twitter", func(auth chi.Router) {
			auth.Get("/", opts.OAuth.Begin)
			auth.Get("/callback", opts.OAuth.Callback)
		})
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(requireOwner)
		api.Post("/schedule-tweet", opts.Handler.scheduleTweet)
		api.Get("/scheduled-tweets", opts.Handler.listScheduled)
		api.Delete("/scheduled-tweet/{id}", opts.Handler.deleteScheduled)
	})

	return r
}
