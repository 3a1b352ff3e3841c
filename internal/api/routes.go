package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures the JSON API routes. apiToken, when non-empty,
// gates every /api route behind a bearer token; web is a browser surface
// mounted at / (may be nil in tests).
func SetupRoutes(h *Handlers, web http.Handler, apiToken string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(Metrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if apiToken != "" {
			r.Use(requireBearerToken(apiToken))
		}

		r.Post("/get-subscriber", h.GetSubscriber)
		r.Get("/groups", h.GetGroups)
		r.Post("/create-subscriber", h.CreateSubscriber)
		r.Get("/groups/{groupID}/subscribers", h.GetSubscribers)
		r.Get("/groups/{groupID}/subscribers-detailed", h.GetDetailedSubscribers)
		r.Get("/subscribers/download-csv", h.DownloadSubscribersCSV)
		r.Post("/update-start-date", h.UpdateStartDate)
	})

	if web != nil {
		r.Mount("/", web)
	}

	return r
}

// requireBearerToken guards the API with a single shared token. The
// original app gated the CSV download on one hard-coded staff email; a
// proper identity layer is out of scope, but the token at least keeps
// subscriber data off the open network.
func requireBearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
