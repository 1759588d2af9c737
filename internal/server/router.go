package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter mounts the sheet-data endpoint at the root and under /api for
// hosts that route functions by prefix.
func NewRouter(h *Handler, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, RequestID, AccessLog(logger), middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler)

	r.Get("/healthz", h.Health)
	r.Get("/sheet-data", h.SheetData)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sheet-data", h.SheetData)
	})
	return r
}
