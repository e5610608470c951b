package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/polyglot-leads/internal/infra/http/handlers"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/middleware"
)

// Deps is everything the router mounts. Limiter may be nil to disable rate
// limiting of submissions.
type Deps struct {
	Leads          *handlers.LeadHandler
	Replies        *handlers.ReplyHandler
	Health         *handlers.HealthHandler
	Auth           *middleware.Authenticator
	Limiter        middleware.Limiter
	AllowedOrigins []string
	RequestLogging bool
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy bool
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if d.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(d.Auth.Middleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"API running"}`))
	})
	if d.Health != nil {
		r.Get("/health", d.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leads", func(r chi.Router) {
		if d.Limiter != nil {
			r.With(middleware.RateLimit(d.Limiter)).Post("/", d.Leads.Create)
		} else {
			r.Post("/", d.Leads.Create)
		}

		r.Group(func(r chi.Router) {
			r.Use(d.Auth.RequireAgent)
			r.Get("/", d.Leads.List)
			r.Get("/{id}", d.Leads.Get)
			r.Patch("/{id}", d.Leads.UpdateStatus)
			r.Post("/{id}/replies", d.Replies.Send)
		})

		r.With(d.Auth.RequireSession).Get("/{id}/replies", d.Replies.List)
	})

	r.With(d.Auth.RequireSession).Get("/me/leads", d.Leads.Mine)

	return r
}
