package server

import (
	"net/http"

	"github.com/shouni/go-comic-kit/internal/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/", h.Index)
	r.Post("/generate", h.HandleSubmit)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}
