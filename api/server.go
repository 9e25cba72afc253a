/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/mortgage/*       Amortization calculation
  /api/prepayments/*    Prepayment simulation, plans, templates
  /api/affordability    Reverse solving
  /api/scenarios/*      Saved scenarios and CSV export
  /api/compare          Side-by-side comparison of saved scenarios
  /api/rates            Exchange rates
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Mortgage routes
		r.Route("/mortgage", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)
		})

		r.Post("/affordability", h.Affordability)

		// Prepayment routes
		r.Route("/prepayments", func(r chi.Router) {
			r.Post("/simulate", h.SimulatePrepayments)
			r.Post("/plans", h.GeneratePlans)
			r.Get("/templates", h.ListTemplates)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/", h.SaveScenario)
			r.Post("/clear", h.ClearScenarios)
			r.Get("/{id}", h.GetScenario)
			r.Delete("/{id}", h.DeleteScenario)
			r.Get("/{id}/export", h.ExportScenario)
		})

		// Comparison view
		r.Get("/compare", h.CompareScenarios)

		// Rate routes
		r.Get("/rates", h.GetRates)
		r.Get("/currencies", h.ListCurrencies)

		// Dev-only reset
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
