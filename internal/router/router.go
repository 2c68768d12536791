package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/actuallystonmai/moodtune-service/internal/handler"
)

func Setup(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/recommendations", h.Recommend)
		r.Post("/reset-history", h.ResetHistory)
		r.Get("/health", h.Health)
		r.Get("/recently-played/{userID}", h.ListRecentlyPlayed)
		r.Post("/recently-played", h.AddRecentlyPlayed)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
