/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request, copied into classification logs
  4. CORS:       Cross-origin requests for a browser upload page

ROUTE GROUPS:
  /api/health           Liveness
  /api/rulesets/*       Ruleset lookup and registration
  /api/cycles/*         Classification, single-member trace, cycle dates
  /api/samples/*        Built-in sample rosters
  /                     Endpoint index

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. origins lists
// the allowed CORS origins; "*" allows any.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Ruleset routes
		r.Route("/rulesets", func(r chi.Router) {
			r.Get("/", h.ListRulesets)
			r.Post("/", h.CreateRuleset)
			r.Get("/{version}", h.GetRuleset)
		})

		// Cycle routes
		r.Route("/cycles/{grade}/{year}", func(r chi.Router) {
			r.Post("/classify", h.Classify)
			r.Post("/evaluate", h.Evaluate)
			r.Get("/dates", h.CycleDates)
		})

		// Sample routes
		r.Route("/samples", func(r chi.Router) {
			r.Get("/", h.ListSamples)
			r.Post("/{id}/classify", h.ClassifySample)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Master Eligibility List</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Master Eligibility List API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/rulesets">/api/rulesets</a> - List rulesets</li>
<li><a href="/api/cycles/SSG/2025/dates">/api/cycles/{grade}/{year}/dates</a> - Cycle dates</li>
<li>POST /api/cycles/{grade}/{year}/classify - Classify a roster (JSON or text/csv)</li>
<li>POST /api/cycles/{grade}/{year}/evaluate - Trace one member</li>
<li><a href="/api/samples">/api/samples</a> - Sample rosters</li>
</ul>
</body>
</html>`))
	})

	return r
}
