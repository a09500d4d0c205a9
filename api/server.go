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
  4. CORS:       Cross-origin requests for the board frontend

ROUTE GROUPS:
  /api/boards/{date}/{shift}/*  One shift's production board
  /api/catalog/*                Shifts, cause taxonomy, stop catalogue

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
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Board routes, one board per date+shift
		r.Route("/boards/{date}/{shift}", func(r chi.Router) {
			r.Get("/", h.GetBoard)
			r.Post("/edits", h.ApplyEdit)
			r.Post("/overtime", h.AddOvertime)
			r.Post("/headcount", h.SetBulkHeadCount)
			r.Post("/stops/preset", h.ApplyStopPreset)
			r.Post("/copy", h.CopyPrevious)
			r.Post("/close", h.CloseShift)
			r.Get("/report", h.DownloadReport)

			r.Route("/adjustments", func(r chi.Router) {
				r.Get("/", h.ListAdjustments)
				r.Post("/", h.CreateAdjustment)
			})
			r.Route("/support", func(r chi.Router) {
				r.Get("/", h.ListSupportAdjustments)
				r.Post("/", h.CreateSupportAdjustment)
			})
		})

		// Catalogue routes
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/shifts", h.ListShifts)
			r.Get("/causes", h.ListCauseTypes)
			r.Get("/stops", h.ListStops)
		})
	})

	return r
}
