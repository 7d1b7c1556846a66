package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// Rate limiting is applied globally: rateLimit requests per minute per IP.
// metricsHandler may be nil, in which case /metrics is not mounted.
func NewRouter(handlers *Handlers, snapshot Pinger, metricsHandler http.Handler, rateLimit int, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(httprate.LimitByIP(rateLimit, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(snapshot, log))
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/destinations", func(r chi.Router) {
		r.Get("/", handlers.ListDestinations)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetDestination)
			r.Get("/overview", handlers.GetOverview)
			r.Get("/places", handlers.ListPlaces)
			r.Get("/places/{placeID}", handlers.GetPlace)
			r.Get("/markers", handlers.ListMarkers)
		})
	})

	r.Route("/api/v1/saved", func(r chi.Router) {
		r.Get("/", handlers.ListSaved)
		r.Delete("/", handlers.ClearSaved)
		r.Get("/{placeID}", handlers.GetSavedStatus)
		r.Post("/{destinationID}/{placeID}/toggle", handlers.ToggleSaved)
	})

	r.Route("/api/v1/chat", func(r chi.Router) {
		r.Get("/", handlers.GetChat)
		r.Post("/", handlers.PostChat)
		r.Delete("/", handlers.ClearChat)
		r.Get("/suggestions", handlers.GetSuggestions)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
